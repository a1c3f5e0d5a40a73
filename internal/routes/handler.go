package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"

	"peermeet-server/internal/signaling"
)

// Handler serves the REST side of the signaling service.
type Handler struct {
	matchmaker *signaling.Matchmaker
	iceServers []string
	jwtSecret  []byte
}

func NewHandler(matchmaker *signaling.Matchmaker, iceServers []string, jwtSecret string) *Handler {
	return &Handler{
		matchmaker: matchmaker,
		iceServers: iceServers,
		jwtSecret:  []byte(jwtSecret),
	}
}

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware validates the "Bearer {token}" header and stashes the token's
// user ID in the request context. Token issuance lives in the main web
// application; this service only verifies.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}
		tokenString := authHeader[7:]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil {
			logrus.WithError(err).Warn("Error parsing token")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}
		userID, ok := claims["user_id"].(string)
		if !ok {
			logrus.Warnf("Invalid user ID in token, claims: %+v", claims)
			http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// createToken mints a 24h HMAC token for the given user ID. Real clients get
// their tokens from the main web application; this helper exists so the
// handler tests can produce tokens the middleware accepts.
func (h *Handler) createToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
