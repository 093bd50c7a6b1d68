package model

import "time"

// Admin represents clinic staff (identity type "admin").
type Admin struct {
	ID                int        `json:"id"`
	UserName          string     `json:"user_name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	Live              bool       `json:"live"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SuperAdmin manages admins and reference data.
type SuperAdmin struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	Confirmed         bool       `json:"confirmed"`
	Live              bool       `json:"live"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateAdminRequest is the payload for adding a new admin.
type CreateAdminRequest struct {
	UserName string `json:"user_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=counter transfer_clerk badr_hospital_admin observer second_manager"`
}

// UpdateAdminRequest is the payload for editing an admin. Password is not
// editable here; see ResetPasswordRequest.
type UpdateAdminRequest struct {
	UserName string `json:"user_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Role     Role   `json:"role" binding:"required,oneof=counter transfer_clerk badr_hospital_admin observer second_manager"`
}

// ResetPasswordRequest sets a new password for an admin.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// CreateSuperAdminRequest is the payload for adding a super admin.
type CreateSuperAdminRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}
