package model

import "time"

// Transfer records an accepted examination sent to an external hospital.
type Transfer struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	MedicExID int       `json:"medic_ex_id"`
	ClinicID  int       `json:"clinic_id"`
	ExHospID  int       `json:"ex_hosp_id"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransferDetail joins a transfer with display names.
type TransferDetail struct {
	Transfer
	StudentName  string `json:"student_name"`
	NationalID   string `json:"national_id"`
	ClinicName   string `json:"clinic_name"`
	HospitalName string `json:"hospital_name"`
}

// CreateTransferRequest is the transfer payload.
type CreateTransferRequest struct {
	StudentID int    `json:"student_id" binding:"required,gt=0"`
	ExamID    int    `json:"exam_id" binding:"required,gt=0"`
	ClinicID  int    `json:"clinic_id" binding:"required,gt=0"`
	ExHospID  int    `json:"ex_hosp_id" binding:"required,gt=0"`
	Reason    string `json:"reason" binding:"required,min=3,max=1000"`
	Notes     string `json:"notes" binding:"max=2000"`
}

// UpdateTransferRequest overwrites the editable fields of a transfer.
type UpdateTransferRequest struct {
	StudentID int    `json:"student_id" binding:"required,gt=0"`
	ExHospID  int    `json:"ex_hosp_id" binding:"required,gt=0"`
	Reason    string `json:"reason" binding:"required,min=3,max=1000"`
	Notes     string `json:"notes" binding:"max=2000"`
}

// TransferFilter narrows transfer listings. Zero values are ignored.
type TransferFilter struct {
	ExHospID int    `form:"ex_hosp_id"`
	ClinicID int    `form:"clinic_id"`
	Search   string `form:"search"`
}
