package model

import "time"

// IdentityClass selects which identity table and token claims apply.
type IdentityClass string

const (
	ClassStudent    IdentityClass = "student"
	ClassAdmin      IdentityClass = "admin"
	ClassSuperAdmin IdentityClass = "super_admin"
)

// Valid reports whether c is one of the three known identity classes.
func (c IdentityClass) Valid() bool {
	switch c {
	case ClassStudent, ClassAdmin, ClassSuperAdmin:
		return true
	}
	return false
}

// IdentityType is the coarse route-level discriminator ("user" or "admin").
type IdentityType string

const (
	TypeUser  IdentityType = "user"
	TypeAdmin IdentityType = "admin"
)

// LoginRequest is the shared login payload; the email domain picks the identity class.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=6,max=128"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128,nefield=CurrentPassword"`
}

// SendOTPRequest asks for a one-time password reset code.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ForgetPasswordRequest resets a student password with a previously mailed OTP.
type ForgetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// SessionWindow is a super-admin login window mirrored outside the process.
type SessionWindow struct {
	SessionID    string
	SuperAdminID int
	Remaining    time.Duration
}
