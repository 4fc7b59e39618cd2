// Package accounts serves registration, login and logout.
package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mytheresa/catalog-web/app/auth"
	"github.com/mytheresa/catalog-web/app/forms"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/models"
	"github.com/mytheresa/catalog-web/pkg/logger"
)

const (
	InvalidLoginMessage    = "Invalid login"
	AccountDisabledMessage = "Your account has been disabled"
	UsernameTakenMessage   = "A user with that username already exists."
)

type UserProvider interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type CategoryLister interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
}

type AccountHandler struct {
	users      UserProvider
	categories CategoryLister
	auth       *auth.Authenticator
	sessions   *session.Manager
	view       web.Renderer
	now        func() time.Time
}

func NewAccountHandler(users UserProvider, categories CategoryLister, sessions *session.Manager, view web.Renderer) *AccountHandler {
	return &AccountHandler{
		users:      users,
		categories: categories,
		auth:       auth.NewAuthenticator(users),
		sessions:   sessions,
		view:       view,
		now:        time.Now,
	}
}

func (h *AccountHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.view.Render(w, http.StatusOK, web.TemplateRegistration, web.RegistrationPage{
		Base: web.Base{Session: sess},
	})
}

// HandleRegister creates an active account, logs it in and sends the user home.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form := forms.DecodeRegistration(r.PostForm)
	page := web.RegistrationPage{
		Base:     web.Base{Session: sess},
		Username: form.Username,
		Email:    form.Email,
	}
	if errs := form.Validate(); errs.Any() {
		page.Errors = errs
		h.view.Render(w, http.StatusUnprocessableEntity, web.TemplateRegistration, page)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   h.now(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			page.Errors = forms.Errors{"username": UsernameTakenMessage}
			h.view.Render(w, http.StatusUnprocessableEntity, web.TemplateRegistration, page)
			return
		}
		web.ServerError(h.view, w, sess, err)
		return
	}

	authenticated, err := h.auth.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}
	if err := h.sessions.Login(r.Context(), w, sess, authenticated.ID, authenticated.Username); err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	logger.Info().Str("username", user.Username).Msg("user registered")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.view.Render(w, http.StatusOK, web.TemplateLogin, web.LoginPage{
		Base: web.Base{Session: sess},
		Next: r.URL.Query().Get("next"),
	})
}

func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form := forms.DecodeLogin(r.PostForm)
	page := web.LoginPage{
		Base:     web.Base{Session: sess},
		Username: form.Username,
		Next:     form.Next,
	}

	user, err := h.auth.Authenticate(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		page.ErrorMessage = InvalidLoginMessage
		h.view.Render(w, http.StatusUnauthorized, web.TemplateLogin, page)
		return
	case errors.Is(err, auth.ErrAccountDisabled):
		page.ErrorMessage = AccountDisabledMessage
		h.view.Render(w, http.StatusForbidden, web.TemplateLogin, page)
		return
	case err != nil:
		web.ServerError(h.view, w, sess, err)
		return
	}

	if err := h.sessions.Login(r.Context(), w, sess, user.ID, user.Username); err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}

	if next, ok := safeNext(form.Next); ok {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	categories, err := h.categories.GetAllCategories(r.Context())
	if err != nil {
		web.ServerError(h.view, w, sess, err)
		return
	}
	h.view.Render(w, http.StatusOK, web.TemplateMain, web.MainPage{
		Base:       web.Base{Session: sess},
		Categories: categories,
	})
}

// HandleLogout ends the session, if there is one, and shows the login form.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.sessions.Logout(r.Context(), w, sess); err != nil {
		logger.Warn().Err(err).Msg("session delete failed")
	}

	h.view.Render(w, http.StatusOK, web.TemplateLogin, web.LoginPage{
		Base: web.Base{Session: sess},
	})
}

// safeNext accepts only paths on this host.
func safeNext(next string) (string, bool) {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "", false
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return next, true
}
