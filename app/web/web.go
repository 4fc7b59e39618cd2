// Package web renders the HTML pages of the catalog.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/catalog-web/app/forms"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/models"
	"github.com/mytheresa/catalog-web/pkg/logger"
)

const (
	TemplateMain           = "main.html"
	TemplateLastAdded      = "last_added.html"
	TemplateCreateCategory = "create_category.html"
	TemplateDetailCategory = "detail_category.html"
	TemplateDetailProduct  = "detail_product.html"
	TemplateCreateProduct  = "create_product.html"
	TemplateRegistration   = "registration_form.html"
	TemplateLogin          = "login.html"
	TemplateNotFound       = "404.html"
	TemplateServerError    = "500.html"
)

const layout = "base.html"

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes a named page with the given status code.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

// Base carries what every page needs for the shared layout.
type Base struct {
	Session *session.Session
}

type MainPage struct {
	Base
	Categories []models.Category
}

type CategoryPage struct {
	Base
	Category *models.Category
}

// CategoryFormPage serves both create and update; Category is nil on create.
type CategoryFormPage struct {
	Base
	Category *models.Category
	Form     forms.CategoryForm
	Errors   forms.Errors
}

type ProductPage struct {
	Base
	Product *models.Product
}

type RecentProductsPage struct {
	Base
	Products []models.Product
}

type ProductFormPage struct {
	Base
	Category     *models.Category
	Form         forms.ProductForm
	Errors       forms.Errors
	ErrorMessage string
}

type RegistrationPage struct {
	Base
	Username string
	Email    string
	Errors   forms.Errors
}

type LoginPage struct {
	Base
	Username     string
	Next         string
	ErrorMessage string
}

var funcs = template.FuncMap{
	"price": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

type Templates struct {
	pages map[string]*template.Template
}

// NewTemplates parses every embedded page together with the shared layout.
func NewTemplates() (*Templates, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layout {
			continue
		}
		t, err := template.New(layout).Funcs(funcs).ParseFS(templateFS, "templates/"+layout, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Templates{pages: pages}, nil
}

func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	page, ok := t.pages[name]
	if !ok {
		logger.Error().Str("template", name).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, layout, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the shared 404 page.
func NotFound(v Renderer, w http.ResponseWriter, sess *session.Session) {
	v.Render(w, http.StatusNotFound, TemplateNotFound, Base{Session: sess})
}

// ServerError logs err and renders the shared 500 page.
func ServerError(v Renderer, w http.ResponseWriter, sess *session.Session, err error) {
	logger.Error().Err(err).Msg("request failed")
	v.Render(w, http.StatusInternalServerError, TemplateServerError, Base{Session: sess})
}

// ParseID parses a positive numeric path segment.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
