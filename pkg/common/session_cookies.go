package common

import (
	"net/http"
	"strings"

	"github.com/matst80/slask-storefront/pkg/tracking"
)

const sessionCookie = "sid"

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 30,
		Path:     "/",
	})
}

// HandleSessionCookie resolves the visitor's session from the sid cookie,
// starting a new one when needed, and records the tracked parameters of
// the request.
func HandleSessionCookie(sessions *tracking.Registry, trk tracking.Tracking, w http.ResponseWriter, r *http.Request) *tracking.Session {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	session, created := sessions.Open(id)
	session.Track(r.URL.Query())
	if created {
		setSessionCookie(w, r, session.Id)
		if trk != nil {
			go trk.TrackSession(session, r)
		}
	}
	return session
}
