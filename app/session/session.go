package session

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mytheresa/catalog-web/models"
	"github.com/mytheresa/catalog-web/pkg/logger"
)

type Config struct {
	CookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"sessionid"`
	TTL        time.Duration `envconfig:"SESSION_TTL" default:"336h"`
	Secure     bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
}

// Session is the per-request identity handed to every handler.
// An anonymous session has an empty ID and a zero UserID.
type Session struct {
	ID       string
	UserID   uint
	Username string
	// CSRFField is the hidden form input carrying the request's CSRF token.
	CSRFField template.HTML
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != 0
}

// HandlerFunc is an http.HandlerFunc that receives the caller's session explicitly.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, sess *Session)

// UserLookup re-reads the account a session points at.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type Manager struct {
	store Store
	users UserLookup
	cfg   Config
	newID func() string
}

// NewManager builds a Manager. When users is nil the stored identity is
// trusted as is.
func NewManager(store Store, cfg Config, users UserLookup) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "sessionid"
	}
	return &Manager{
		store: store,
		users: users,
		cfg:   cfg,
		newID: uuid.NewString,
	}
}

// Load resolves the session referenced by the request cookie. Unknown,
// expired or unreadable sessions yield an anonymous session, and so do
// sessions whose user has since been deleted or deactivated.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}
	ctx := r.Context()
	data, err := m.store.Load(ctx, c.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error().Err(err).Msg("session load failed")
		}
		return &Session{}
	}
	if m.users == nil {
		return &Session{ID: c.Value, UserID: data.UserID, Username: data.Username}
	}

	user, err := m.users.GetByID(ctx, data.UserID)
	switch {
	case errors.Is(err, models.ErrUserNotFound), err == nil && !user.IsActive:
		if err := m.store.Delete(ctx, c.Value); err != nil {
			logger.Warn().Err(err).Msg("failed to drop stale session")
		}
		return &Session{}
	case err != nil:
		logger.Error().Err(err).Uint("user_id", data.UserID).Msg("session user lookup failed")
		return &Session{}
	}
	return &Session{ID: c.Value, UserID: user.ID, Username: user.Username}
}

// Login binds sess to the given user under a fresh id and sets the cookie.
// Any previous id is discarded.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, sess *Session, userID uint, username string) error {
	if sess.ID != "" {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	id := m.newID()
	if err := m.store.Save(ctx, id, Data{UserID: userID, Username: username}, m.cfg.TTL); err != nil {
		return err
	}
	sess.ID, sess.UserID, sess.Username = id, userID, username

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout destroys the session, if any, and expires the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	var err error
	if sess.ID != "" {
		err = m.store.Delete(ctx, sess.ID)
	}
	*sess = Session{CSRFField: sess.CSRFField}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// Wrap adapts fn to net/http by loading the session first.
func (m *Manager) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, m.Load(r))
	}
}

// RequireLogin is Wrap for pages that need an authenticated user.
// Anonymous callers are redirected to loginURL with a next parameter.
func (m *Manager) RequireLogin(loginURL string, fn HandlerFunc) http.HandlerFunc {
	return m.Wrap(func(w http.ResponseWriter, r *http.Request, sess *Session) {
		if !sess.IsAuthenticated() {
			target := loginURL + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		fn(w, r, sess)
	})
}
