package middleware

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// The cookie value is an HS256 JWT carrying only the server-side session id.
// The signature stops token forgery; expiry is enforced against the session
// record, not a claim, so it can slide without reissuing the cookie.

func SignSessionID(secret []byte, sessionID string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sid"] = sessionID
	return token.SignedString(secret)
}

func ParseSessionID(secret []byte, value string) (string, bool) {
	token, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
