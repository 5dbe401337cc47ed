package web

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
)

// Panel forms carry a double-submit token: the same random value is set as
// a cookie and posted as a hidden field.
const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
)

// csrfToken returns the token from the request cookie, or issues a fresh one.
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	token := rand.Text()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
	return token
}

// validateCSRF reports whether the posted form token equals the cookie token.
func validateCSRF(r *http.Request) bool {
	c, err := r.Cookie(csrfCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	posted := r.PostFormValue(csrfFormField)
	if posted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(posted), []byte(c.Value)) == 1
}
