package handler

import "time"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// principalResponse is the public view of either principal variant. Role is
// set only for users.
type principalResponse struct {
	ID        int64      `json:"id"`
	Kind      string     `json:"kind"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type loginResponse struct {
	Principal principalResponse `json:"principal"`
	Session   sessionResponse   `json:"session"`
}
