package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"github.com/mytheresa/catalog-web/pkg/logger"
)

// Names of the CSRF form field and cookie.
const (
	CSRFFieldName  = "csrfmiddlewaretoken"
	CSRFCookieName = "csrftoken"
)

// CSRF rejects unsafe requests without a valid token with 403. With secure
// unset the site is served over plain HTTP, so the HTTPS-only Referer check
// is skipped.
func CSRF(key []byte, secure bool) mux.MiddlewareFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.CookieName(CSRFCookieName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	logger.Warn().
		Err(csrf.FailureReason(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("csrf check failed")
	http.Error(w, "CSRF verification failed. Request aborted.", http.StatusForbidden)
}
