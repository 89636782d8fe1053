package dtos

import (
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

// User is the public view of a models.User. It never carries the password
// hash.
type User struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Email                  string              `json:"email"`
	UniqueID               string              `json:"unique_id"`
	Role                   models.Role         `json:"role"`
	IsActive               bool                `json:"is_active"`
	State                  models.AccountState `json:"state"`
	RequiresPasswordChange bool                `json:"requires_password_change"`
	Phone                  string              `json:"phone,omitempty"`
	Address                string              `json:"address,omitempty"`
	BankDetails            *models.BankDetails `json:"bank_details,omitempty"`
	ApprovedAt             *time.Time          `json:"approved_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
}

func NewUserFromModel(u *models.User) User {
	return User{
		ID:                     u.ID.String(),
		Name:                   u.Name,
		Email:                  u.Email,
		UniqueID:               u.UniqueID,
		Role:                   u.Role,
		IsActive:               u.IsActive,
		State:                  u.State(),
		RequiresPasswordChange: u.RequiresPasswordChange,
		Phone:                  u.Phone,
		Address:                u.Address,
		BankDetails:            u.BankDetails,
		ApprovedAt:             u.ApprovedAt,
		CreatedAt:              u.CreatedAt,
	}
}

func NewUsersFromModels(users []*models.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserFromModel(u))
	}
	return out
}

// CreateAssociateRequest is an admin creating an already active associate.
type CreateAssociateRequest struct {
	Name        string              `json:"name" validate:"required,max=120"`
	Email       string              `json:"email" validate:"required,email"`
	Phone       string              `json:"phone" validate:"required,min=7,max=20"`
	Address     string              `json:"address" validate:"max=500"`
	BankDetails *models.BankDetails `json:"bank_details,omitempty"`
}

type CreateAssociateResponse struct {
	User              User   `json:"user"`
	TemporaryPassword string `json:"temporary_password"`
}

type ToggleAssociateRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UpdateProfileRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone       *string             `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address     *string             `json:"address,omitempty" validate:"omitempty,max=500"`
	BankDetails *models.BankDetails `json:"bank_details,omitempty"`
}

type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func NewPage[T any](items []T, total, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	offset, limit := models.NormalizePage(page, pageSize)
	return Page[T]{Items: items, Total: total, Page: offset/limit + 1, PageSize: limit}
}
