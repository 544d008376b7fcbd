package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"beatstore/config"
	"beatstore/core/auth"
	"beatstore/core/whop"
	"beatstore/logger"
	"beatstore/repository"
)

// APIHandler carries the dependencies of every HTTP handler.
type APIHandler struct {
	beatRepo    repository.BeatRepository
	licenseRepo repository.LicenseTermsRepository
	whopClient  *whop.Client
	cfg         *config.Config
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	beatRepo repository.BeatRepository,
	licenseRepo repository.LicenseTermsRepository,
	whopClient *whop.Client,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		beatRepo:    beatRepo,
		licenseRepo: licenseRepo,
		whopClient:  whopClient,
		cfg:         cfg,
	}
}

// LoginHandler exchanges the admin password for a bearer token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	ok := false
	switch {
	case h.cfg.AdminPasswordHash != "":
		ok = auth.CheckPasswordHash(req.Password, h.cfg.AdminPasswordHash)
	case h.cfg.AdminPassword != "":
		ok = req.Password == h.cfg.AdminPassword
	}
	if !ok {
		logger.Warn("admin login rejected", logger.String("remoteAddr", r.RemoteAddr))
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(h.cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to generate admin token", logger.ErrorField(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

// AuthMiddleware checks for a valid admin JWT on the Authorization header.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		if _, err := auth.ParseToken(h.cfg.JWTSecret, parts[1]); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}
