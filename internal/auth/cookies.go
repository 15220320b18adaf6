package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token for
// browser-originated requests.
const SessionCookieName = "jwt"

// CookieConfig holds session cookie settings. Secure is set only for
// production deployments (HTTPS).
type CookieConfig struct {
	Expiry time.Duration
	Secure bool
}

// SetSessionCookie writes the session token as an httpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(config.Expiry),
		MaxAge:   int(config.Expiry.Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with a short-lived
// placeholder, logging the browser out.
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		MaxAge:   10,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
