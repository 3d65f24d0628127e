package websocket

import (
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/kshathishka/collabstudy/internal/utils"
)

type AuthenticatorFunc func(r *http.Request) (userID string, err error)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// JWTWebSocketAuth authenticates the websocket handshake with the same
// access tokens the HTTP API uses. Browsers cannot set custom headers on a
// ws handshake, so the token is also accepted via query param and cookie.
func JWTWebSocketAuth(publicKey *rsa.PublicKey) AuthenticatorFunc {
	return func(r *http.Request) (string, error) {
		token := getTokenFromRequest(r)
		if token == "" {
			return "", &AuthError{Message: "missing access token"}
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return "", &AuthError{Message: "invalid or expired token"}
		}

		return claims.Sub, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
