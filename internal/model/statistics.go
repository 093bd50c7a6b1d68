package model

// Statistics is the super-admin dashboard summary.
type Statistics struct {
	Students                  int                       `json:"students"`
	Reservations              int                       `json:"reservations"`
	EmergencyReservations     int                       `json:"emergency_reservations"`
	Clinics                   int                       `json:"clinics"`
	Admins                    int                       `json:"admins"`
	SuperAdmins               int                       `json:"super_admins"`
	Transfers                 int                       `json:"transfers"`
	AvgReservationsPerStudent float64                   `json:"avg_reservations_per_student"`
	AvgReservationsPerClinic  float64                   `json:"avg_reservations_per_clinic"`
	MostReservedClinic        *ClinicCount              `json:"most_reserved_clinic"`
	StatusCounts              map[ReservationStatus]int `json:"status_counts"`
}

// ClinicCount pairs a clinic with its reservation count.
type ClinicCount struct {
	ClinicID   int    `json:"clinic_id"`
	ClinicName string `json:"clinic_name"`
	Count      int    `json:"count"`
}

// MonthlyCount is one bucket of the reservation histogram.
type MonthlyCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}
