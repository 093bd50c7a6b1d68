package model

import "time"

// DateLayout is the calendar-day format used on the wire for reservations.
const DateLayout = "2006-01-02"

// ReservationStatus is the state of a medical examination request.
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationAccepted ReservationStatus = "accepted"
	ReservationDeclined ReservationStatus = "declined"
)

// Decision is an admin verdict on a pending reservation.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// Status returns the reservation status a decision leads to.
func (d Decision) Status() ReservationStatus {
	if d == DecisionAccept {
		return ReservationAccepted
	}
	return ReservationDeclined
}

// Reservation is a student's medical examination request (medical_examinations).
type Reservation struct {
	ID          int               `json:"id"`
	StudentID   int               `json:"student_id"`
	ClinicID    int               `json:"clinic_id"`
	Date        time.Time         `json:"date"`
	ExamType    string            `json:"exam_type"`
	Status      ReservationStatus `json:"status"`
	Transferred bool              `json:"transferred"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ReservationDetail joins a reservation with display names and its transfer.
type ReservationDetail struct {
	Reservation
	ClinicName  string    `json:"clinic_name"`
	StudentName string    `json:"student_name,omitempty"`
	NationalID  string    `json:"national_id,omitempty"`
	Transfer    *Transfer `json:"transfer,omitempty"`
}

// CreateReservationRequest is a student's booking payload.
type CreateReservationRequest struct {
	ClinicID int    `json:"clinic_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	ExamType string `json:"exam_type" binding:"required,min=2,max=100"`
}

// UpdateReservationRequest replaces the editable fields of a reservation.
type UpdateReservationRequest struct {
	ClinicID int    `json:"clinic_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	ExamType string `json:"exam_type" binding:"required,min=2,max=100"`
}

// DecisionRequest is the admin accept/decline payload.
type DecisionRequest struct {
	Operation Decision `json:"operation" binding:"required,oneof=accept decline"`
}

// ReservationFilter narrows admin reservation listings. Zero values are ignored.
type ReservationFilter struct {
	Status   ReservationStatus `form:"status" binding:"omitempty,oneof=pending accepted declined"`
	ExamType string            `form:"exam_type"`
	Date     string            `form:"date" binding:"omitempty,datetime=2006-01-02"`
	ClinicID int               `form:"clinic_id"`
	Search   string            `form:"search"`
}
