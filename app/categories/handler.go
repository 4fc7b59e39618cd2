package categories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mytheresa/catalog-web/app/forms"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/models"
)

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo CategoryProvider
	view web.Renderer
}

func NewCategoryHandler(r CategoryProvider, view web.Renderer) *CategoryHandler {
	return &CategoryHandler{repo: r, view: view}
}

// HandleList renders the home page with every category.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateMain, web.MainPage{
		Base:       web.Base{Session: sess},
		Categories: categories,
	})
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	category, ok := h.categoryFromPath(w, r, sess)
	if !ok {
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateDetailCategory, web.CategoryPage{
		Base:     web.Base{Session: sess},
		Category: category,
	})
}

func (h *CategoryHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.view.Render(w, http.StatusOK, web.TemplateCreateCategory, web.CategoryFormPage{
		Base: web.Base{Session: sess},
	})
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form := forms.DecodeCategory(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		h.view.Render(w, http.StatusUnprocessableEntity, web.TemplateCreateCategory, web.CategoryFormPage{
			Base:   web.Base{Session: sess},
			Form:   form,
			Errors: errs,
		})
		return
	}

	category := &models.Category{}
	form.Apply(category)
	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/category/%d", category.ID), http.StatusSeeOther)
}

func (h *CategoryHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	category, ok := h.categoryFromPath(w, r, sess)
	if !ok {
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateCreateCategory, web.CategoryFormPage{
		Base:     web.Base{Session: sess},
		Category: category,
		Form:     forms.CategoryFormFrom(category),
	})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	category, ok := h.categoryFromPath(w, r, sess)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form := forms.DecodeCategory(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		h.view.Render(w, http.StatusUnprocessableEntity, web.TemplateCreateCategory, web.CategoryFormPage{
			Base:     web.Base{Session: sess},
			Category: category,
			Form:     form,
			Errors:   errs,
		})
		return
	}

	form.Apply(category)
	if err := h.repo.UpdateCategory(r.Context(), category); err != nil {
		h.fail(w, sess, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDelete removes the category together with its products.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := web.ParseID(mux.Vars(r)["id"])
	if !ok {
		web.NotFound(h.view, w, sess)
		return
	}

	if err := h.repo.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, sess, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *CategoryHandler) categoryFromPath(w http.ResponseWriter, r *http.Request, sess *session.Session) (*models.Category, bool) {
	id, ok := web.ParseID(mux.Vars(r)["id"])
	if !ok {
		web.NotFound(h.view, w, sess)
		return nil, false
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, sess, err)
		return nil, false
	}
	return category, true
}

func (h *CategoryHandler) fail(w http.ResponseWriter, sess *session.Session, err error) {
	if errors.Is(err, models.ErrCategoryNotFound) {
		web.NotFound(h.view, w, sess)
		return
	}
	web.ServerError(h.view, w, sess, err)
}
