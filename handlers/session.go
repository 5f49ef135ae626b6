package handlers

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"checkout-pricing-api/models"
)

const (
	checkoutSessionName = "checkout-session"
	promocodeKey        = "promocode"
)

func init() {
	gob.Register(models.PromocodeApplied{})
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

// NewSessionStore is the cookie store that keeps the applied promocode between the
// checkout pages.
func NewSessionStore(cfg SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionPromocode returns the promocode stored in the session, if any. A broken cookie
// reads as no promocode.
func sessionPromocode(store sessions.Store, r *http.Request) *models.PromocodeApplied {
	session, err := store.Get(r, checkoutSessionName)
	if err != nil {
		return nil
	}
	applied, ok := session.Values[promocodeKey].(models.PromocodeApplied)
	if !ok {
		return nil
	}
	return &applied
}
