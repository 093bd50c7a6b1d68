package model

import "time"

// Gender of a student.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Student represents a student (identity type "user").
type Student struct {
	ID                int        `json:"id"`
	UserName          string     `json:"user_name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	NationalID        string     `json:"national_id"`
	Phone             string     `json:"phone"`
	Gender            Gender     `json:"gender"`
	BirthDay          *time.Time `json:"birth_day,omitempty"`
	LevelID           int        `json:"level_id"`
	GovID             int        `json:"gov_id"`
	FacultyID         int        `json:"faculty_id"`
	NationalityID     int        `json:"nationality_id"`
	ImageRef          string     `json:"image_ref,omitempty"`
	NationalIDFileRef string     `json:"national_id_file_ref,omitempty"`
	FeesFileRef       string     `json:"fees_file_ref,omitempty"`
	Verified          bool       `json:"verified"`
	Blocked           bool       `json:"blocked"`
	Live              bool       `json:"live"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StudentProfile is a Student joined with its reference-data names.
type StudentProfile struct {
	Student
	LevelName       string `json:"level_name"`
	GovName         string `json:"gov_name"`
	FacultyName     string `json:"faculty_name"`
	NationalityName string `json:"nationality_name"`
}

// SignupRequest is the multipart form a student submits to register.
type SignupRequest struct {
	UserName      string `form:"user_name" binding:"required,min=3,max=100"`
	Email         string `form:"email" binding:"required,email,max=255"`
	Password      string `form:"password" binding:"required,min=8,max=128"`
	NationalID    string `form:"national_id" binding:"required,national_id"`
	Phone         string `form:"phone" binding:"required,min=8,max=20"`
	Gender        Gender `form:"gender" binding:"required,oneof=male female"`
	BirthDay      string `form:"birth_day" binding:"required,datetime=2006-01-02"`
	LevelID       int    `form:"level_id" binding:"required,gt=0"`
	GovID         int    `form:"gov_id" binding:"required,gt=0"`
	FacultyID     int    `form:"faculty_id" binding:"required,gt=0"`
	NationalityID int    `form:"nationality_id" binding:"required,gt=0"`
}

// SignupFiles carries the stored references of the signup attachments.
type SignupFiles struct {
	ImageRef          string
	NationalIDFileRef string
	FeesFileRef       string
}

// UpdateProfileRequest is the student's self-service profile edit.
type UpdateProfileRequest struct {
	UserName   string `json:"user_name" binding:"required,min=3,max=100"`
	Phone      string `json:"phone" binding:"required,min=8,max=20"`
	NationalID string `json:"national_id" binding:"required,national_id"`
	LevelID    int    `json:"level_id" binding:"required,gt=0"`
	GovID      int    `json:"gov_id" binding:"required,gt=0"`
}

// CreateStudentRequest is the admin-side student creation payload.
type CreateStudentRequest struct {
	UserName      string `json:"user_name" binding:"required,min=3,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=8,max=128"`
	NationalID    string `json:"national_id" binding:"required,national_id"`
	Phone         string `json:"phone" binding:"required,min=8,max=20"`
	Gender        Gender `json:"gender" binding:"required,oneof=male female"`
	LevelID       int    `json:"level_id" binding:"required,gt=0"`
	GovID         int    `json:"gov_id" binding:"required,gt=0"`
	FacultyID     int    `json:"faculty_id" binding:"required,gt=0"`
	NationalityID int    `json:"nationality_id" binding:"required,gt=0"`
}

// UpdateStudentRequest is the admin-side student edit payload.
type UpdateStudentRequest struct {
	UserName   string `json:"user_name" binding:"required,min=3,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	NationalID string `json:"national_id" binding:"required,national_id"`
	Phone      string `json:"phone" binding:"required,min=8,max=20"`
	LevelID    int    `json:"level_id" binding:"required,gt=0"`
	GovID      int    `json:"gov_id" binding:"required,gt=0"`
	FacultyID  int    `json:"faculty_id" binding:"required,gt=0"`
}

// ObservationRequest is a free-text note mailed to a student.
type ObservationRequest struct {
	Message string `json:"message" binding:"required,min=3,max=2000"`
}

// StudentFilter narrows admin student listings. Zero values are ignored.
type StudentFilter struct {
	Search        string `form:"search"`
	LevelID       int    `form:"level_id"`
	GovID         int    `form:"gov_id"`
	FacultyID     int    `form:"faculty_id"`
	NationalityID int    `form:"nationality_id"`
	Blocked       *bool  `form:"blocked"`
	Verified      *bool  `form:"verified"`
}
