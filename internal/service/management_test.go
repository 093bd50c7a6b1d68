package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeHasher struct{}

func (fakeHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

// quietAudit accepts every append and publish.
func quietAudit() *AuditService {
	store := &mockAuditStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)
	pub := &mockPublisher{}
	pub.On("PublishAudit", mock.Anything, mock.Anything).Return(nil)
	return NewAuditService(store, pub, zerolog.Nop())
}

var root = SuperAdminActor(1, "root")

var loginDomains = DomainMap{
	"gmail.com":     model.ClassSuperAdmin,
	"admin.com":     model.ClassAdmin,
	"helwan.edu.eg": model.ClassStudent,
}

func TestReferenceService(t *testing.T) {
	ctx := context.Background()

	t.Run("create trims and rejects duplicates", func(t *testing.T) {
		refs := &mockReferences{}
		svc := NewReferenceService(refs, quietAudit())
		refs.On("Create", ctx, model.KindClinic, "Dental").Return(&model.Reference{ID: 1, Name: "Dental"}, nil).Once()
		refs.On("Create", ctx, model.KindClinic, "Dental").Return(nil, repository.ErrDuplicate).Once()

		ref, err := svc.Create(ctx, root, model.KindClinic, "  Dental ")
		require.NoError(t, err)
		assert.Equal(t, 1, ref.ID)

		_, err = svc.Create(ctx, root, model.KindClinic, "Dental")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("delete in use", func(t *testing.T) {
		refs := &mockReferences{}
		svc := NewReferenceService(refs, quietAudit())
		refs.On("Delete", ctx, model.KindLevel, 2).Return(repository.ErrInvalidReference)
		refs.On("Delete", ctx, model.KindLevel, 3).Return(repository.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, root, model.KindLevel, 2), ErrDependencyUse)
		assert.ErrorIs(t, svc.Delete(ctx, root, model.KindLevel, 3), ErrNotFound)
	})

	t.Run("update missing", func(t *testing.T) {
		refs := &mockReferences{}
		svc := NewReferenceService(refs, quietAudit())
		refs.On("Update", ctx, model.KindHospital, 9, "Badr").Return(nil, repository.ErrNotFound)

		_, err := svc.Update(ctx, root, model.KindHospital, 9, "Badr")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAdminService_Create(t *testing.T) {
	ctx := context.Background()
	admins := &mockAdmins{}
	svc := NewAdminService(admins, &mockSuperAdmins{}, loginDomains, fakeHasher{}, quietAudit())

	_, err := svc.Create(ctx, root, model.CreateAdminRequest{UserName: "x", Email: "x@admin.com", Password: "p", Role: model.RoleSuperAdmin})
	assert.ErrorIs(t, err, ErrMalformedRequest)

	admins.On("Taken", ctx, "sara@admin.com", "sara", 0).Return(true, nil).Once()
	_, err = svc.Create(ctx, root, model.CreateAdminRequest{UserName: "sara", Email: "sara@admin.com", Password: "p", Role: model.RoleCounter})
	assert.ErrorIs(t, err, ErrConflict)

	admins.On("Taken", ctx, "Sara@admin.com", "sara", 0).Return(false, nil).Once()
	admins.On("Create", ctx, mock.MatchedBy(func(a *model.Admin) bool {
		return a.Email == "sara@admin.com" && a.PasswordHash == "hashed:secret123"
	})).Return(nil)
	a, err := svc.Create(ctx, root, model.CreateAdminRequest{UserName: "sara", Email: "Sara@admin.com", Password: "secret123", Role: model.RoleObserver})
	require.NoError(t, err)
	assert.Equal(t, model.RoleObserver, a.Role)
}

func TestAdminService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	req := model.ResetPasswordRequest{Password: "newsecret1"}

	tests := []struct {
		name   string
		caller *Identity
		target int
		want   error
	}{
		{"admin resets self", &Identity{Class: model.ClassAdmin, ID: 4, Name: "sara"}, 4, nil},
		{"admin resets other", &Identity{Class: model.ClassAdmin, ID: 4, Name: "sara"}, 5, ErrForbidden},
		{"super admin resets anyone", &Identity{Class: model.ClassSuperAdmin, ID: 1, Name: "root"}, 5, nil},
		{"student is refused", &Identity{Class: model.ClassStudent, ID: 4}, 4, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := &mockAdmins{}
			admins.On("UpdatePassword", ctx, tt.target, "hashed:newsecret1").Return(nil)
			svc := NewAdminService(admins, &mockSuperAdmins{}, loginDomains, fakeHasher{}, quietAudit())

			err := svc.ResetPassword(ctx, tt.caller, tt.target, req)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				admins.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			admins.AssertExpectations(t)
		})
	}
}

func TestAdminService_CreateSuperAdmin(t *testing.T) {
	ctx := context.Background()
	supers := &mockSuperAdmins{}
	svc := NewAdminService(&mockAdmins{}, supers, loginDomains, fakeHasher{}, quietAudit())
	supers.On("Create", ctx, mock.MatchedBy(func(s *model.SuperAdmin) bool {
		return !s.Confirmed && s.Email == "new@gmail.com"
	})).Return(nil).Once()
	supers.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

	_, err := svc.CreateSuperAdmin(ctx, root, model.CreateSuperAdminRequest{Name: "new", Email: "New@gmail.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.CreateSuperAdmin(ctx, root, model.CreateSuperAdminRequest{Name: "dup", Email: "dup@gmail.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAccountEmailMustMatchLoginDomain(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		write func(admins *AdminService, students *StudentService) error
	}{
		{"admin create with super admin domain", func(a *AdminService, _ *StudentService) error {
			_, err := a.Create(ctx, root, model.CreateAdminRequest{UserName: "sara", Email: "sara@gmail.com", Password: "secret123", Role: model.RoleCounter})
			return err
		}},
		{"admin update with student domain", func(a *AdminService, _ *StudentService) error {
			_, err := a.Update(ctx, root, 4, model.UpdateAdminRequest{UserName: "sara", Email: "sara@helwan.edu.eg", Role: model.RoleCounter})
			return err
		}},
		{"super admin with admin domain", func(a *AdminService, _ *StudentService) error {
			_, err := a.CreateSuperAdmin(ctx, root, model.CreateSuperAdminRequest{Name: "boss", Email: "boss@admin.com", Password: "secret123"})
			return err
		}},
		{"student create with admin domain", func(_ *AdminService, st *StudentService) error {
			_, err := st.Create(ctx, root, model.CreateStudentRequest{
				UserName: "ali", Email: "ali@admin.com", Password: "secret123", NationalID: "29901011234567",
				LevelID: 1, GovID: 1, FacultyID: 1, NationalityID: 1,
			})
			return err
		}},
		{"student update with unknown domain", func(_ *AdminService, st *StudentService) error {
			_, err := st.Update(ctx, root, 7, model.UpdateStudentRequest{UserName: "ali", Email: "ali@yahoo.com", NationalID: "29901011234567"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := &mockAdmins{}
			supers := &mockSuperAdmins{}
			students := &mockStudents{}
			refs := &mockReferences{}
			adminSvc := NewAdminService(admins, supers, loginDomains, fakeHasher{}, quietAudit())
			studentSvc := NewStudentService(students, refs, loginDomains, fakeHasher{}, &mockNotifier{}, quietAudit())

			assert.ErrorIs(t, tt.write(adminSvc, studentSvc), ErrMalformedRequest)
			admins.AssertNotCalled(t, "Taken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			supers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			refs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestStudentService_CreateIsVerified(t *testing.T) {
	ctx := context.Background()
	students := &mockStudents{}
	refs := &mockReferences{}
	svc := NewStudentService(students, refs, loginDomains, fakeHasher{}, &mockNotifier{}, quietAudit())

	refs.On("Exists", ctx, mock.Anything, mock.Anything).Return(true, nil)
	students.On("EmailTaken", ctx, "a@helwan.edu.eg", 0).Return(false, nil)
	students.On("NationalIDTaken", ctx, "29901011234567", 0).Return(false, nil)
	students.On("Create", ctx, mock.MatchedBy(func(s *model.Student) bool { return s.Verified })).Return(nil)

	st, err := svc.Create(ctx, AdminActor(2, "sara"), model.CreateStudentRequest{
		UserName: "ali", Email: "a@helwan.edu.eg", Password: "secret123", NationalID: "29901011234567",
		LevelID: 1, GovID: 1, FacultyID: 1, NationalityID: 1,
	})
	require.NoError(t, err)
	assert.True(t, st.Verified)
}

func TestStudentService_UpdateConflict(t *testing.T) {
	ctx := context.Background()
	students := &mockStudents{}
	refs := &mockReferences{}
	svc := NewStudentService(students, refs, loginDomains, fakeHasher{}, &mockNotifier{}, quietAudit())

	refs.On("Exists", ctx, mock.Anything, mock.Anything).Return(true, nil)
	students.On("EmailTaken", ctx, "b@helwan.edu.eg", 7).Return(true, nil)

	_, err := svc.Update(ctx, AdminActor(2, "sara"), 7, model.UpdateStudentRequest{Email: "b@helwan.edu.eg", NationalID: "1"})
	assert.ErrorIs(t, err, ErrConflict)
	students.AssertNotCalled(t, "AdminUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudentService_SetBlockedAudits(t *testing.T) {
	ctx := context.Background()
	students := &mockStudents{}
	store := &mockAuditStore{}
	pub := &mockPublisher{}
	svc := NewStudentService(students, &mockReferences{}, loginDomains, fakeHasher{}, &mockNotifier{}, NewAuditService(store, pub, zerolog.Nop()))

	students.On("SetBlocked", ctx, 7, true).Return(nil)
	store.On("Insert", ctx, mock.MatchedBy(func(e *model.AdminLog) bool { return e.Action == model.AuditBlockStudent })).Return(nil)
	pub.On("PublishAudit", ctx, mock.Anything).Return(nil)

	require.NoError(t, svc.SetBlocked(ctx, AdminActor(2, "sara"), 7, true))
	store.AssertExpectations(t)

	students.On("SetBlocked", ctx, 8, false).Return(repository.ErrNotFound)
	assert.ErrorIs(t, svc.SetBlocked(ctx, AdminActor(2, "sara"), 8, false), ErrNotFound)
}

func TestStudentService_SendObservation(t *testing.T) {
	ctx := context.Background()
	students := &mockStudents{}
	notifier := &mockNotifier{}
	svc := NewStudentService(students, &mockReferences{}, loginDomains, fakeHasher{}, notifier, quietAudit())

	students.On("GetByID", ctx, 7).Return(&model.Student{ID: 7, Email: "a@helwan.edu.eg", UserName: "ali"}, nil)
	notifier.On("Send", ctx, mock.MatchedBy(func(m model.Mail) bool {
		return m.Kind == model.MailObservation && m.Data["message"] == "bring your file" && m.Data["from"] == "sara"
	})).Return(errors.New("queue down")).Once()

	err := svc.SendObservation(ctx, AdminActor(2, "sara"), 7, "bring your file")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestEmergencyService_Validate(t *testing.T) {
	ctx := context.Background()
	req := model.EmergencyReservationRequest{Name: "walk in", NationalID: "29901011234567", LevelID: 1, ClinicID: 2, GovID: 3, FacultyID: 4, NationalityID: 5}

	t.Run("unknown clinic", func(t *testing.T) {
		refs := &mockReferences{}
		svc := NewEmergencyService(&mockEmergencies{}, refs, quietAudit())
		refs.On("Exists", ctx, model.KindClinic, 2).Return(false, nil)

		_, err := svc.Create(ctx, AdminActor(2, "sara"), req)
		assert.ErrorIs(t, err, ErrUnknownClinic)
	})

	t.Run("unknown governorate", func(t *testing.T) {
		refs := &mockReferences{}
		svc := NewEmergencyService(&mockEmergencies{}, refs, quietAudit())
		refs.On("Exists", ctx, model.KindGovernorate, 3).Return(false, nil)
		refs.On("Exists", ctx, mock.Anything, mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, AdminActor(2, "sara"), req)
		assert.ErrorIs(t, err, ErrUnknownReference)
	})

	t.Run("created", func(t *testing.T) {
		refs := &mockReferences{}
		store := &mockEmergencies{}
		svc := NewEmergencyService(store, refs, quietAudit())
		refs.On("Exists", ctx, mock.Anything, mock.Anything).Return(true, nil)
		store.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*model.EmergencyReservation).ID = 5
		}).Return(nil)

		e, err := svc.Create(ctx, AdminActor(2, "sara"), req)
		require.NoError(t, err)
		assert.Equal(t, 5, e.ID)
		assert.Equal(t, 2, e.ClinicID)
	})
}
