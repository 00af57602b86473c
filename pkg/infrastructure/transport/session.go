package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSessionName = "storefront_session"
	cartIDKey          = "cart_id"
)

// NewCookieStore returns a signed cookie store for the cart session.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return store
}

type cartSession struct {
	session *sessions.Session
	changed bool
}

func loadCartSession(store sessions.Store, name string, r *http.Request) *cartSession {
	session, err := store.Get(r, name)
	if err != nil {
		// A tampered or outdated cookie yields a fresh session.
		log.WithError(err).Warn("discarding unreadable session")
	}
	return &cartSession{session: session}
}

func (s *cartSession) CartID() (uuid.UUID, bool) {
	raw, ok := s.session.Values[cartIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *cartSession) SetCartID(id uuid.UUID) {
	s.session.Values[cartIDKey] = id.String()
	s.changed = true
}

func (s *cartSession) save(w http.ResponseWriter, r *http.Request) error {
	if !s.changed {
		return nil
	}
	return s.session.Save(r, w)
}
