package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User is the shape persisted in the "users" record. The password is stored
// in plain text: credential matching in this demo is an exact (email,
// password) lookup, a known weakness of the system rather than an oversight
// here. Copies placed in the session record are password-stripped.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	StoreID   string `json:"storeId,omitempty"`
	StoreName string `json:"storeName,omitempty"`
}

// WithoutPassword returns a copy safe to place in the session record.
func (u User) WithoutPassword() User {
	u.Password = ""

	return u
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Name      string `json:"name" validate:"required"`
	Role      Role   `json:"role" validate:"required,oneof=buyer seller"`
	StoreName string `json:"storeName,omitempty" validate:"required_if=Role seller"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expires_in,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
	Message        string `json:"message,omitempty"`
	User           *User  `json:"user,omitempty"`
}

type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	StoreID string `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
