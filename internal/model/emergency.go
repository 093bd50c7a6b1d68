package model

import "time"

// EmergencyReservation is an admin-created walk-in case with no status lifecycle.
type EmergencyReservation struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	NationalID    string    `json:"national_id"`
	LevelID       int       `json:"level_id"`
	ClinicID      int       `json:"clinic_id"`
	GovID         int       `json:"gov_id"`
	FacultyID     int       `json:"faculty_id"`
	NationalityID int       `json:"nationality_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmergencyReservationRequest creates or replaces an emergency reservation.
type EmergencyReservationRequest struct {
	Name          string `json:"name" binding:"required,min=3,max=100"`
	NationalID    string `json:"national_id" binding:"required,national_id"`
	LevelID       int    `json:"level_id" binding:"required,gt=0"`
	ClinicID      int    `json:"clinic_id" binding:"required,gt=0"`
	GovID         int    `json:"gov_id" binding:"required,gt=0"`
	FacultyID     int    `json:"faculty_id" binding:"required,gt=0"`
	NationalityID int    `json:"nationality_id" binding:"required,gt=0"`
}
