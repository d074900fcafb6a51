package dto

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

type LoginResponse struct {
	SessionToken string          `json:"session_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	AccessToken  string          `json:"access_token,omitempty"`
	Account      AccountResponse `json:"account"`
}

type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ErrorResponse struct {
	Error      bool   `json:"error"`
	Code       string `json:"code,omitempty"`
	MessageKey string `json:"message_key,omitempty"`
	Message    string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
