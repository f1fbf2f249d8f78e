package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

func TestGenerateAndParseJWT(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: uuid.New(), Username: "admin"}

	token, expiresAt, err := GenerateJWT(user, testSecret, now)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if !expiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected a 24h token, expires at %s", expiresAt)
	}

	parsed, err := ParseJWT(token, testSecret, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if parsed.ID != user.ID || parsed.Username != "admin" {
		t.Errorf("Expected %+v, got %+v", user, parsed)
	}

	testCases := []struct {
		name   string
		secret string
		at     time.Time
	}{
		{"wrong secret", "other-secret", now},
		{"expired", testSecret, now.Add(25 * time.Hour)},
		{"not yet valid", testSecret, now.Add(-time.Hour)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseJWT(token, tc.secret, tc.at); err == nil {
				t.Error("Expected ParseJWT to fail")
			}
		})
	}
}

func TestParseJWT_RejectsForeignTokens(t *testing.T) {
	now := time.Now()
	sign := func(method jwt.SigningMethod, claims JWTClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("Failed to sign: %v", err)
		}
		return s
	}
	valid := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	badSubject := valid
	badSubject.Subject = "admin"

	testCases := map[string]string{
		"HS512":        sign(jwt.SigningMethodHS512, JWTClaims{RegisteredClaims: valid}),
		"other issuer": sign(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: otherIssuer}),
		"no expiry":    sign(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: noExpiry}),
		"bad subject":  sign(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: badSubject}),
	}
	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJWT(token, testSecret, now); err == nil {
				t.Error("Expected ParseJWT to fail")
			}
		})
	}
}

func TestJWT_NoSecret(t *testing.T) {
	if _, _, err := GenerateJWT(&models.User{}, "", time.Now()); err == nil {
		t.Error("Expected GenerateJWT to refuse an empty secret")
	}
	if _, err := ParseJWT("anything", "", time.Now()); err == nil {
		t.Error("Expected ParseJWT to refuse an empty secret")
	}
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "abc.def", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		token, ok := bearerToken(r)
		if token != tc.token || ok != tc.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
