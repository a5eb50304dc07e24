package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

const tokenCookieName = "token"

var ErrNoSecret = errors.New("no token secret configured")

// AdminAuth guards the routes that change shared state. A request passes with
// the api key in the Authorization header, or with a token signed by Secret as
// a bearer token or in the token cookie. With neither configured every admin
// request is refused.
type AdminAuth struct {
	ApiKey string
	Secret []byte
}

func (a *AdminAuth) IssueToken(subject string, ttl time.Duration) (string, error) {
	if a == nil || len(a.Secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(a.Secret)
}

func (a *AdminAuth) authorized(r *http.Request) bool {
	if a == nil {
		return false
	}
	auth := r.Header.Get("Authorization")
	if a.ApiKey != "" && subtle.ConstantTimeCompare([]byte(auth), []byte(a.ApiKey)) == 1 {
		return true
	}
	if len(a.Secret) == 0 {
		return false
	}

	raw, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			return false
		}
		raw = cookie.Value
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && token.Valid && claims.VerifyExpiresAt(time.Now().Unix(), true)
}

func (ws *WebServer) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ws.Admin.authorized(r) {
			log.WithField("path", r.URL.Path).Warn("Unauthorized admin request")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
