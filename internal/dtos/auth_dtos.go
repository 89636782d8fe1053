package dtos

import (
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

// LoginRequest accepts either an email address or a unique id (BA-001).
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken            string    `json:"access_token"`
	ExpiresAt              time.Time `json:"expires_at"`
	User                   User      `json:"user"`
	RequiresPasswordChange bool      `json:"requires_password_change"`
	RedirectTo             string    `json:"redirect_to"`
}

type RegisterRequest struct {
	Name        string              `json:"name" validate:"required,max=120"`
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=8,max=72"`
	Phone       string              `json:"phone" validate:"required,min=7,max=20"`
	Address     string              `json:"address" validate:"max=500"`
	BankDetails *models.BankDetails `json:"bank_details,omitempty"`
}

type SetNewPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type GateResponse struct {
	Path       string `json:"path"`
	Render     bool   `json:"render"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
