package dto

import (
	"time"

	"github.com/spec-kit/service-center/internal/domain"
)

// LoginRequest payload for staff login.
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string          `json:"token"`
	Kind      domain.UserKind `json:"kind"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// UserResponse describes the logged-in account.
type UserResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        domain.UserKind `json:"kind"`
	AccessLevel int             `json:"access_level,omitempty"`
}

// NewUserResponse maps a staff account.
func NewUserResponse(u domain.User) UserResponse {
	resp := UserResponse{ID: u.ID(), Name: u.Name(), Kind: u.Kind}
	if u.Administrator != nil {
		resp.AccessLevel = u.Administrator.AccessLevel
	}
	return resp
}

// ClientRequest payload for registering or updating a client.
type ClientRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
}

// ClientResponse describes a client.
type ClientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info,omitempty"`
}

// NewClientResponse maps a client.
func NewClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, ContactInfo: c.ContactInfo}
}
