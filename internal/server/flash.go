package server

import (
	"net/http"
	"net/url"
)

const (
	flashCookie = "gatepass_flash"
	flashMaxAge = 60 // seconds
)

// User-facing messages shown on the form page.
const (
	msgMissingFields   = "Missing required fields!"
	msgGenerationError = "Error generating the Gate Pass PDF."
	msgUnexpected      = "An error occurred."
)

// setFlash stores msg for the next page render.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending message, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
