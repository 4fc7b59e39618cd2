// Package router wires the HTTP routes of the catalog.
package router

import (
	"context"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"github.com/mytheresa/catalog-web/app/accounts"
	"github.com/mytheresa/catalog-web/app/categories"
	"github.com/mytheresa/catalog-web/app/metrics"
	"github.com/mytheresa/catalog-web/app/middleware"
	"github.com/mytheresa/catalog-web/app/products"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/pkg/logger"
)

const loginURL = "/login"

type Dependencies struct {
	Categories *categories.CategoryHandler
	Products   *products.ProductHandler
	Accounts   *accounts.AccountHandler
	Sessions   *session.Manager
	View       web.Renderer
	Metrics    *metrics.Metrics
	// Ping reports whether the backing stores are reachable.
	Ping func(ctx context.Context) error
	// CSRFKey signs the CSRF cookie; SecureCookies marks the site as HTTPS only.
	CSRFKey       []byte
	SecureCookies bool
}

func New(d Dependencies) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CSRF(d.CSRFKey, d.SecureCookies))

	s := d.Sessions
	get := func(path string, fn session.HandlerFunc) {
		r.HandleFunc(path, s.Wrap(withCSRFField(fn))).Methods(http.MethodGet, http.MethodHead)
	}
	post := func(path string, fn session.HandlerFunc) {
		r.HandleFunc(path, s.Wrap(withCSRFField(fn))).Methods(http.MethodPost)
	}

	get("/", d.Categories.HandleList)
	get("/category/create", d.Categories.HandleCreateForm)
	post("/category/create", d.Categories.HandleCreate)
	get("/category/{id:[0-9]+}", d.Categories.HandleGet)
	get("/category/{id:[0-9]+}/update", d.Categories.HandleUpdateForm)
	post("/category/{id:[0-9]+}/update", d.Categories.HandleUpdate)
	post("/category/{id:[0-9]+}/delete", d.Categories.HandleDelete)

	r.HandleFunc("/products/recent", s.RequireLogin(loginURL, d.Products.HandleRecent)).Methods(http.MethodGet, http.MethodHead)
	get("/product/{id:[0-9]+}", d.Products.HandleGet)
	get("/category/{slug}/product/create", d.Products.HandleCreateForm)
	post("/category/{slug}/product/create", d.Products.HandleCreate)

	get("/register", d.Accounts.HandleRegisterForm)
	post("/register", d.Accounts.HandleRegister)
	get(loginURL, d.Accounts.HandleLoginForm)
	post(loginURL, d.Accounts.HandleLogin)
	get("/logout", d.Accounts.HandleLogout)

	r.HandleFunc("/healthz", healthz(d.Ping)).Methods(http.MethodGet)
	r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = s.Wrap(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		web.NotFound(d.View, w, sess)
	})

	var h http.Handler = r
	h = middleware.Recover(d.View)(h)
	h = middleware.Logging(h)
	h = middleware.RequestID(h)
	return h
}

// withCSRFField hands the request's CSRF input to the templates.
func withCSRFField(fn session.HandlerFunc) session.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		sess.CSRFField = csrf.TemplateField(r)
		fn(w, r, sess)
	}
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.Warn().Err(err).Msg("health check failed")
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
