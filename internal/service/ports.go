package service

import (
	"context"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StudentStore is the student persistence surface used by the services.
type StudentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	GetProfile(ctx context.Context, id int) (*model.StudentProfile, error)
	Exists(ctx context.Context, id int) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	NationalIDTaken(ctx context.Context, nationalID string, excludeID int) (bool, error)
	Create(ctx context.Context, s *model.Student) error
	UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error
	AdminUpdate(ctx context.Context, id int, req model.UpdateStudentRequest) error
	UpdateImage(ctx context.Context, id int, ref string) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	SetBlocked(ctx context.Context, id int, blocked bool) error
	SetLive(ctx context.Context, id int, live bool) error
	SetVerifiedByEmail(ctx context.Context, email string) error
	ResetAllVerified(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int) error
	ListPaginated(ctx context.Context, f model.StudentFilter, limit, offset int) ([]model.StudentProfile, int, error)
}

// AdminStore is the admin persistence surface.
type AdminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Taken(ctx context.Context, email, userName string, excludeID int) (bool, error)
	Create(ctx context.Context, a *model.Admin) error
	Update(ctx context.Context, id int, req model.UpdateAdminRequest) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	SetLive(ctx context.Context, id int, live bool) error
	Delete(ctx context.Context, id int) error
	ListPaginated(ctx context.Context, search string, role model.Role, limit, offset int) ([]model.Admin, int, error)
}

// SuperAdminStore is the super admin persistence surface.
type SuperAdminStore interface {
	GetByID(ctx context.Context, id int) (*model.SuperAdmin, error)
	GetByEmail(ctx context.Context, email string) (*model.SuperAdmin, error)
	Create(ctx context.Context, s *model.SuperAdmin) error
	SetConfirmedByEmail(ctx context.Context, email string) error
	SetLive(ctx context.Context, id int, live bool) error
	CloseWindow(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	ListLive(ctx context.Context) ([]int, error)
}

// ReservationStore is the medical examination persistence surface.
type ReservationStore interface {
	LockDate(ctx context.Context, date time.Time) error
	CountByDate(ctx context.Context, date time.Time, excludeID int) (int, error)
	CountByStudentAndDate(ctx context.Context, studentID int, date time.Time, excludeID int) (int, error)
	Create(ctx context.Context, m *model.Reservation) error
	GetByID(ctx context.Context, id int) (*model.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id int) (*model.Reservation, error)
	GetDetail(ctx context.Context, id int) (*model.ReservationDetail, error)
	Update(ctx context.Context, m *model.Reservation) error
	Delete(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status model.ReservationStatus) error
	SetTransferred(ctx context.Context, id int) error
	ReconcileTransferred(ctx context.Context) (int64, error)
	ListByStudent(ctx context.Context, studentID, limit, offset int) ([]model.ReservationDetail, int, error)
	ListPaginated(ctx context.Context, f model.ReservationFilter, limit, offset int) ([]model.ReservationDetail, int, error)
}

// TransferStore is the transfer persistence surface.
type TransferStore interface {
	Create(ctx context.Context, t *model.Transfer) error
	GetByID(ctx context.Context, id int) (*model.Transfer, error)
	Update(ctx context.Context, t *model.Transfer) error
	ListPaginated(ctx context.Context, f model.TransferFilter, limit, offset int) ([]model.TransferDetail, int, error)
}

// EmergencyStore is the emergency reservation persistence surface.
type EmergencyStore interface {
	Create(ctx context.Context, e *model.EmergencyReservation) error
	GetByID(ctx context.Context, id int) (*model.EmergencyReservation, error)
	Update(ctx context.Context, e *model.EmergencyReservation) error
	Delete(ctx context.Context, id int) error
	ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.EmergencyReservation, int, error)
}

// AuditStore is the admin_log persistence surface.
type AuditStore interface {
	Insert(ctx context.Context, e *model.AdminLog) error
	ListPaginated(ctx context.Context, f model.AuditFilter, limit, offset int) ([]model.AdminLog, int, error)
	Delete(ctx context.Context, f model.AuditFilter) (int64, error)
}

// AuditPublisher announces committed audit entries.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, entry *model.AdminLog) error
}

// ReferenceStore is the reference table persistence surface.
type ReferenceStore interface {
	List(ctx context.Context, kind model.ReferenceKind) ([]model.Reference, error)
	GetByID(ctx context.Context, kind model.ReferenceKind, id int) (*model.Reference, error)
	Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error)
	Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.Reference, error)
	Update(ctx context.Context, kind model.ReferenceKind, id int, name string) (*model.Reference, error)
	Delete(ctx context.Context, kind model.ReferenceKind, id int) error
}

// StatisticsStore is the dashboard aggregate surface.
type StatisticsStore interface {
	GetSummaryCounts(ctx context.Context) (*model.Statistics, error)
	GetStatusCounts(ctx context.Context) (map[model.ReservationStatus]int, error)
	GetClinicCounts(ctx context.Context) ([]model.ClinicCount, error)
	GetMonthlyCounts(ctx context.Context, year int) (map[int]int, error)
}

// OTPStore keeps short-lived password reset codes.
type OTPStore interface {
	SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeOTP(ctx context.Context, email, code string) (bool, error)
}

// Notifier queues an email. Delivery happens out of band.
type Notifier interface {
	Send(ctx context.Context, mail model.Mail) error
}

// WindowScheduler owns the timed super-admin session windows.
type WindowScheduler interface {
	Open(ctx context.Context, sessionID string, superAdminID int) error
	Close(ctx context.Context, sessionID string)
	CloseAll(ctx context.Context, superAdminID int)
}
