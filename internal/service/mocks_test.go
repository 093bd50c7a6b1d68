package service

import (
	"context"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/stretchr/testify/mock"
)

// passTx runs fn directly; rollback semantics are covered by the repository tests.
type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// ─── Students ───────────────────────────────────────────────────────────

type mockStudents struct{ mock.Mock }

func (m *mockStudents) GetByID(ctx context.Context, id int) (*model.Student, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*model.Student)
	return st, args.Error(1)
}

func (m *mockStudents) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	args := m.Called(ctx, email)
	st, _ := args.Get(0).(*model.Student)
	return st, args.Error(1)
}

func (m *mockStudents) GetProfile(ctx context.Context, id int) (*model.StudentProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.StudentProfile)
	return p, args.Error(1)
}

func (m *mockStudents) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStudents) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStudents) NationalIDTaken(ctx context.Context, nationalID string, excludeID int) (bool, error) {
	args := m.Called(ctx, nationalID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStudents) Create(ctx context.Context, s *model.Student) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStudents) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockStudents) AdminUpdate(ctx context.Context, id int, req model.UpdateStudentRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockStudents) UpdateImage(ctx context.Context, id int, ref string) error {
	return m.Called(ctx, id, ref).Error(0)
}

func (m *mockStudents) UpdatePassword(ctx context.Context, id int, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockStudents) SetBlocked(ctx context.Context, id int, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

func (m *mockStudents) SetLive(ctx context.Context, id int, live bool) error {
	return m.Called(ctx, id, live).Error(0)
}

func (m *mockStudents) SetVerifiedByEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockStudents) ResetAllVerified(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStudents) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStudents) ListPaginated(ctx context.Context, f model.StudentFilter, limit, offset int) ([]model.StudentProfile, int, error) {
	args := m.Called(ctx, f, limit, offset)
	list, _ := args.Get(0).([]model.StudentProfile)
	return list, args.Int(1), args.Error(2)
}

// ─── Admins ─────────────────────────────────────────────────────────────

type mockAdmins struct{ mock.Mock }

func (m *mockAdmins) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *mockAdmins) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *mockAdmins) Taken(ctx context.Context, email, userName string, excludeID int) (bool, error) {
	args := m.Called(ctx, email, userName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAdmins) Create(ctx context.Context, a *model.Admin) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAdmins) Update(ctx context.Context, id int, req model.UpdateAdminRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockAdmins) UpdatePassword(ctx context.Context, id int, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockAdmins) SetLive(ctx context.Context, id int, live bool) error {
	return m.Called(ctx, id, live).Error(0)
}

func (m *mockAdmins) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdmins) ListPaginated(ctx context.Context, search string, role model.Role, limit, offset int) ([]model.Admin, int, error) {
	args := m.Called(ctx, search, role, limit, offset)
	list, _ := args.Get(0).([]model.Admin)
	return list, args.Int(1), args.Error(2)
}

// ─── Super admins ───────────────────────────────────────────────────────

type mockSuperAdmins struct{ mock.Mock }

func (m *mockSuperAdmins) GetByID(ctx context.Context, id int) (*model.SuperAdmin, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.SuperAdmin)
	return s, args.Error(1)
}

func (m *mockSuperAdmins) GetByEmail(ctx context.Context, email string) (*model.SuperAdmin, error) {
	args := m.Called(ctx, email)
	s, _ := args.Get(0).(*model.SuperAdmin)
	return s, args.Error(1)
}

func (m *mockSuperAdmins) Create(ctx context.Context, s *model.SuperAdmin) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSuperAdmins) SetConfirmedByEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockSuperAdmins) SetLive(ctx context.Context, id int, live bool) error {
	return m.Called(ctx, id, live).Error(0)
}

func (m *mockSuperAdmins) CloseWindow(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSuperAdmins) UpdatePassword(ctx context.Context, id int, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockSuperAdmins) ListLive(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

// ─── Reservations ───────────────────────────────────────────────────────

type mockReservations struct{ mock.Mock }

func (m *mockReservations) LockDate(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

func (m *mockReservations) CountByDate(ctx context.Context, date time.Time, excludeID int) (int, error) {
	args := m.Called(ctx, date, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *mockReservations) CountByStudentAndDate(ctx context.Context, studentID int, date time.Time, excludeID int) (int, error) {
	args := m.Called(ctx, studentID, date, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *mockReservations) Create(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReservations) GetByID(ctx context.Context, id int) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockReservations) GetByIDForUpdate(ctx context.Context, id int) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockReservations) GetDetail(ctx context.Context, id int) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockReservations) Update(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReservations) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReservations) SetStatus(ctx context.Context, id int, status model.ReservationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockReservations) SetTransferred(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReservations) ReconcileTransferred(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReservations) ListByStudent(ctx context.Context, studentID, limit, offset int) ([]model.ReservationDetail, int, error) {
	args := m.Called(ctx, studentID, limit, offset)
	list, _ := args.Get(0).([]model.ReservationDetail)
	return list, args.Int(1), args.Error(2)
}

func (m *mockReservations) ListPaginated(ctx context.Context, f model.ReservationFilter, limit, offset int) ([]model.ReservationDetail, int, error) {
	args := m.Called(ctx, f, limit, offset)
	list, _ := args.Get(0).([]model.ReservationDetail)
	return list, args.Int(1), args.Error(2)
}

// ─── Transfers ──────────────────────────────────────────────────────────

type mockTransfers struct{ mock.Mock }

func (m *mockTransfers) Create(ctx context.Context, t *model.Transfer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransfers) GetByID(ctx context.Context, id int) (*model.Transfer, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Transfer)
	return t, args.Error(1)
}

func (m *mockTransfers) Update(ctx context.Context, t *model.Transfer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransfers) ListPaginated(ctx context.Context, f model.TransferFilter, limit, offset int) ([]model.TransferDetail, int, error) {
	args := m.Called(ctx, f, limit, offset)
	list, _ := args.Get(0).([]model.TransferDetail)
	return list, args.Int(1), args.Error(2)
}

// ─── References ─────────────────────────────────────────────────────────

type mockReferences struct{ mock.Mock }

func (m *mockReferences) List(ctx context.Context, kind model.ReferenceKind) ([]model.Reference, error) {
	args := m.Called(ctx, kind)
	list, _ := args.Get(0).([]model.Reference)
	return list, args.Error(1)
}

func (m *mockReferences) GetByID(ctx context.Context, kind model.ReferenceKind, id int) (*model.Reference, error) {
	args := m.Called(ctx, kind, id)
	ref, _ := args.Get(0).(*model.Reference)
	return ref, args.Error(1)
}

func (m *mockReferences) Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockReferences) Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.Reference, error) {
	args := m.Called(ctx, kind, name)
	ref, _ := args.Get(0).(*model.Reference)
	return ref, args.Error(1)
}

func (m *mockReferences) Update(ctx context.Context, kind model.ReferenceKind, id int, name string) (*model.Reference, error) {
	args := m.Called(ctx, kind, id, name)
	ref, _ := args.Get(0).(*model.Reference)
	return ref, args.Error(1)
}

func (m *mockReferences) Delete(ctx context.Context, kind model.ReferenceKind, id int) error {
	return m.Called(ctx, kind, id).Error(0)
}

// ─── Audit ──────────────────────────────────────────────────────────────

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Insert(ctx context.Context, e *model.AdminLog) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockAuditStore) ListPaginated(ctx context.Context, f model.AuditFilter, limit, offset int) ([]model.AdminLog, int, error) {
	args := m.Called(ctx, f, limit, offset)
	list, _ := args.Get(0).([]model.AdminLog)
	return list, args.Int(1), args.Error(2)
}

func (m *mockAuditStore) Delete(ctx context.Context, f model.AuditFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishAudit(ctx context.Context, e *model.AdminLog) error {
	return m.Called(ctx, e).Error(0)
}

// ─── Notification, OTP, windows, statistics ─────────────────────────────

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Send(ctx context.Context, mail model.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

type mockOTPs struct{ mock.Mock }

func (m *mockOTPs) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return m.Called(ctx, email, code, ttl).Error(0)
}

func (m *mockOTPs) ConsumeOTP(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

type mockWindows struct{ mock.Mock }

func (m *mockWindows) Open(ctx context.Context, sessionID string, superAdminID int) error {
	return m.Called(ctx, sessionID, superAdminID).Error(0)
}

func (m *mockWindows) Close(ctx context.Context, sessionID string) {
	m.Called(ctx, sessionID)
}

func (m *mockWindows) CloseAll(ctx context.Context, superAdminID int) {
	m.Called(ctx, superAdminID)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) GetSummaryCounts(ctx context.Context) (*model.Statistics, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*model.Statistics)
	return s, args.Error(1)
}

func (m *mockStats) GetStatusCounts(ctx context.Context) (map[model.ReservationStatus]int, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[model.ReservationStatus]int)
	return c, args.Error(1)
}

func (m *mockStats) GetClinicCounts(ctx context.Context) ([]model.ClinicCount, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.ClinicCount)
	return c, args.Error(1)
}

func (m *mockStats) GetMonthlyCounts(ctx context.Context, year int) (map[int]int, error) {
	args := m.Called(ctx, year)
	c, _ := args.Get(0).(map[int]int)
	return c, args.Error(1)
}

// ─── Emergencies ────────────────────────────────────────────────────────

type mockEmergencies struct{ mock.Mock }

func (m *mockEmergencies) Create(ctx context.Context, e *model.EmergencyReservation) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmergencies) GetByID(ctx context.Context, id int) (*model.EmergencyReservation, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*model.EmergencyReservation)
	return e, args.Error(1)
}

func (m *mockEmergencies) Update(ctx context.Context, e *model.EmergencyReservation) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmergencies) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmergencies) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.EmergencyReservation, int, error) {
	args := m.Called(ctx, search, limit, offset)
	list, _ := args.Get(0).([]model.EmergencyReservation)
	return list, args.Int(1), args.Error(2)
}
