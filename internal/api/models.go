package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse defines the public view of a user returned by the profile
// endpoints. The password hash never appears here.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest defines the payload for the profile update
// endpoint. Both fields are optional; omitted fields are preserved.
type UpdateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CreateTaskRequest defines the payload for task creation. The creator
// is always the authenticated caller; any creator supplied in the body
// is ignored by construction — there is no field for it.
type CreateTaskRequest struct {
	Title        string     `json:"title"          validate:"required,min=1,max=100"`
	Description  *string    `json:"description"`
	DueDate      time.Time  `json:"due_date"       validate:"required"`
	Priority     string     `json:"priority"       validate:"required,oneof=Low Medium High Urgent"`
	Status       string     `json:"status"         validate:"omitempty,oneof=ToDo InProgress Review Completed"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
}
