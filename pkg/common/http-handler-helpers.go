package common

import (
	"net/http"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/tracking"
)

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error

func JsonHandler(sessions *tracking.Registry, trk tracking.Tracking, fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		session := HandleSessionCookie(sessions, trk, w, r)
		w.Header().Set("Content-Type", "application/json")

		err := fn(w, r, session, jsoncompat.NewEncoder(w))
		if err != nil {
			log.WithError(err).WithField("path", r.URL.Path).Error("Error handling request")
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
