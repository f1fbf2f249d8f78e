package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
)

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (rm *RouteManager) handleLogin(w http.ResponseWriter, r *http.Request) {
	if rm.Users == nil {
		writeError(w, http.StatusServiceUnavailable, "user store is not configured", "")
		return
	}

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	user, err := rm.Users.ValidateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, database.ErrInvalidCredentials) {
			log.Printf("❌ Failed to validate user: %v", err)
		}
		writeError(w, http.StatusUnauthorized, "invalid username or password", "")
		return
	}

	token, expiresAt, err := GenerateJWT(user, rm.Config.JWTSecret, rm.now())
	if err != nil {
		log.Printf("❌ Failed to generate token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token", "")
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
	})
}

func (rm *RouteManager) handleMe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, UserInfo{
		ID:       user.ID.String(),
		Username: user.Username,
	})
}
