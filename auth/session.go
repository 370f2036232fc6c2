package auth

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"warbler/models"
)

const (
	// SessionName is the cookie carrying the session.
	SessionName = "warbler_session"

	// CurrUserKey is the fixed session key holding the authenticated
	// user's id. Shared with the tests.
	CurrUserKey = "curr_user"
)

// FlashMessage is a one-shot notice rendered on the next page view.
type FlashMessage struct {
	Category string
	Message  string
}

func init() {
	gob.Register(FlashMessage{})
	gob.Register(uint(0))
}

// Gate reads and writes the authenticated-user identifier in the request
// session. Every mutating or privacy-sensitive view consults it first.
type Gate struct {
	store sessions.Store
}

func NewGate(secret string) *Gate {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Gate{store: store}
}

// Login stores the user's id in the session.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	session, _ := g.store.Get(r, SessionName)
	session.Values[CurrUserKey] = user.ID
	return session.Save(r, w)
}

// Logout removes the user id from the session.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := g.store.Get(r, SessionName)
	delete(session.Values, CurrUserKey)
	return session.Save(r, w)
}

// CurrentUserID returns the stored user id, or false if the session holds
// none.
func (g *Gate) CurrentUserID(r *http.Request) (uint, bool) {
	session, err := g.store.Get(r, SessionName)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values[CurrUserKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Flash queues a one-shot notice for the next rendered page.
func (g *Gate) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, _ := g.store.Get(r, SessionName)
	session.AddFlash(FlashMessage{Category: category, Message: message})
	session.Save(r, w)
}

// Flashes drains and returns the queued notices.
func (g *Gate) Flashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	session, _ := g.store.Get(r, SessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save(r, w)
	}

	flashes := make([]FlashMessage, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(FlashMessage); ok {
			flashes = append(flashes, fm)
		}
	}
	return flashes
}
