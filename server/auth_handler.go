package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"VidPlayer/core/auth"
	"VidPlayer/logger"
)

type contextKey string

const usernameKey contextKey = "username"

// AuthHandler 管理员登录与令牌校验
type AuthHandler struct {
	issuer       *auth.TokenIssuer
	adminUser    string
	passwordHash string
}

// NewAuthHandler passwordHash 为空时登录始终失败
func NewAuthHandler(issuer *auth.TokenIssuer, adminUser, passwordHash string) *AuthHandler {
	return &AuthHandler{issuer: issuer, adminUser: adminUser, passwordHash: passwordHash}
}

// LoginHandler handles admin login requests
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	if h.passwordHash == "" || req.Username != h.adminUser || !auth.CheckPasswordHash(req.Password, h.passwordHash) {
		logger.Warn("[Login] 登录失败", logger.String("username", req.Username))
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.issuer.GenerateToken(req.Username)
	if err != nil {
		logger.Error("[Login] 生成Token失败", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("[Login] 登录成功", logger.String("username", req.Username))
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": req.Username})
}

// AuthMiddleware is a middleware function that checks for a valid JWT token
func (h *AuthHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
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

		claims, err := h.issuer.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUsernameFromContext extracts the username from the request context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
