package products

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mytheresa/catalog-web/app/forms"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/models"
)

// DuplicateProductMessage is shown when a category already has a product with the submitted name.
const DuplicateProductMessage = "You already added that product"

type ProductProvider interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	CreateInCategory(ctx context.Context, categoryID uint, product *models.Product) error
}

type CategoryProvider interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type ProductHandler struct {
	products   ProductProvider
	categories CategoryProvider
	view       web.Renderer
	now        func() time.Time
}

func NewProductHandler(p ProductProvider, c CategoryProvider, view web.Renderer) *ProductHandler {
	return &ProductHandler{
		products:   p,
		categories: c,
		view:       view,
		now:        time.Now,
	}
}

// HandleRecent lists the products added during the last 24 hours.
func (h *ProductHandler) HandleRecent(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	all, err := h.products.GetAllProducts(r.Context())
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateLastAdded, web.RecentProductsPage{
		Base:     web.Base{Session: sess},
		Products: FilterRecent(all, h.now()),
	})
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := web.ParseID(mux.Vars(r)["id"])
	if !ok {
		web.NotFound(h.view, w, sess)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			web.NotFound(h.view, w, sess)
			return
		}
		web.ServerError(h.view, w, sess, err)
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateDetailProduct, web.ProductPage{
		Base:    web.Base{Session: sess},
		Product: product,
	})
}

// HandleCreateForm renders an empty product form for the category in the path.
func (h *ProductHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	category, ok := h.categoryFromPath(w, r, sess)
	if !ok {
		return
	}

	h.view.Render(w, http.StatusOK, web.TemplateCreateProduct, web.ProductFormPage{
		Base:     web.Base{Session: sess},
		Category: category,
	})
}

// HandleCreate adds a product to the category in the path and shows the
// category with its products. Nothing is written when the category does not
// exist, the form is invalid, or the name is already taken in that category.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	category, ok := h.categoryFromPath(w, r, sess)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	form := forms.DecodeProduct(r.PostForm)
	page := web.ProductFormPage{
		Base:     web.Base{Session: sess},
		Category: category,
		Form:     form,
	}

	if errs := form.Validate(); errs.Any() {
		page.Errors = errs
		h.view.Render(w, http.StatusUnprocessableEntity, web.TemplateCreateProduct, page)
		return
	}

	product, err := form.Product(h.now())
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	if err := h.products.CreateInCategory(r.Context(), category.ID, product); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateProduct):
			page.ErrorMessage = DuplicateProductMessage
			h.view.Render(w, http.StatusConflict, web.TemplateCreateProduct, page)
		case errors.Is(err, models.ErrCategoryNotFound):
			web.NotFound(h.view, w, sess)
		default:
			web.ServerError(h.view, w, sess, err)
		}
		return
	}

	category.Products, err = h.products.GetByCategory(r.Context(), category.ID)
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}
	h.view.Render(w, http.StatusOK, web.TemplateDetailCategory, web.CategoryPage{
		Base:     web.Base{Session: sess},
		Category: category,
	})
}

func (h *ProductHandler) categoryFromPath(w http.ResponseWriter, r *http.Request, sess *session.Session) (*models.Category, bool) {
	category, err := h.categories.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			web.NotFound(h.view, w, sess)
		} else {
			web.ServerError(h.view, w, sess, err)
		}
		return nil, false
	}
	return category, true
}
