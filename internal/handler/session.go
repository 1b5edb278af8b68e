package handler

import (
	"context"
	"net/http"
	"time"
)

// phoneCookie is the client-local persisted state: the phone number
// remembered after a successful submission.
const phoneCookie = "registered_phone"

// cookieSession adapts one request/response pair to session.Store, carrying
// the remembered phone in a cookie. The cookie plays the role the original
// client's local storage did.
type cookieSession struct {
	w http.ResponseWriter
	r *http.Request
}

func newCookieSession(w http.ResponseWriter, r *http.Request) *cookieSession {
	return &cookieSession{w: w, r: r}
}

func (c *cookieSession) Load(_ context.Context) (string, error) {
	cookie, err := c.r.Cookie(phoneCookie)
	if err != nil {
		// No cookie means no remembered phone; not an error.
		return "", nil
	}
	return cookie.Value, nil
}

func (c *cookieSession) Save(_ context.Context, phone string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     phoneCookie,
		Value:    phone,
		Path:     "/",
		Expires:  time.Now().Add(90 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *cookieSession) Clear(_ context.Context) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     phoneCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
