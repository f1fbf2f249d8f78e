package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

type contextKey string

const userContextKey contextKey = "user"

const (
	tokenIssuer   = "dhtdash"
	tokenLifetime = 24 * time.Hour
)

var errNoSecret = errors.New("JWT secret is not configured")

// JWTClaims carries the user id in sub and the name alongside it
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuthMiddleware rejects requests without a valid bearer token and
// puts the token's user in the request context.
func (rm *RouteManager) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "bearer token required", "")
			return
		}

		user, err := ParseJWT(raw, rm.Config.JWTSecret, rm.now())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token", "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserFromContext returns the authenticated user, nil outside protected routes
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// GenerateJWT signs an HS256 token for user valid from now for tokenLifetime
func GenerateJWT(user *models.User, secret string, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errNoSecret
	}

	expiresAt := now.Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT checks signature, issuer and validity window against now.
// The user is rebuilt from the claims without a database lookup.
func ParseJWT(raw, secret string, now time.Time) (*models.User, error) {
	if secret == "" {
		return nil, errNoSecret
	}

	var claims JWTClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("token subject is not a user id")
	}
	return &models.User{ID: id, Username: claims.Username}, nil
}
