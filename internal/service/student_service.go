package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
)

// PasswordHasher hashes plaintext passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// StudentService handles student profiles and admin-side student management.
type StudentService struct {
	students   StudentStore
	references ReferenceStore
	domains    DomainMap
	hasher     PasswordHasher
	notifier   Notifier
	audit      *AuditService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, references ReferenceStore, domains DomainMap, hasher PasswordHasher, notifier Notifier, audit *AuditService) *StudentService {
	return &StudentService{
		students:   students,
		references: references,
		domains:    domains,
		hasher:     hasher,
		notifier:   notifier,
		audit:      audit,
	}
}

// GetProfile retrieves a student with reference-data names.
func (s *StudentService) GetProfile(ctx context.Context, id int) (*model.StudentProfile, error) {
	p, err := s.students.GetProfile(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return p, nil
}

// UpdateProfile applies a student's own edit.
func (s *StudentService) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (*model.StudentProfile, error) {
	if err := checkReferences(ctx, s.references,
		refCheck{model.KindLevel, req.LevelID},
		refCheck{model.KindGovernorate, req.GovID},
	); err != nil {
		return nil, err
	}
	if err := checkStudentUnique(ctx, s.students, "", req.NationalID, id); err != nil {
		return nil, err
	}
	if err := s.students.UpdateProfile(ctx, id, req); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}
	return s.GetProfile(ctx, id)
}

// UpdatePhoto stores a new profile photo reference.
func (s *StudentService) UpdatePhoto(ctx context.Context, id int, ref string) (*model.StudentProfile, error) {
	if err := s.students.UpdateImage(ctx, id, ref); err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return s.GetProfile(ctx, id)
}

// List returns a filtered page of students.
func (s *StudentService) List(ctx context.Context, filter model.StudentFilter, page, perPage int) ([]model.StudentProfile, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.students.ListPaginated(ctx, filter, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// Create adds a student on behalf of an admin. Admin-created students
// start verified.
func (s *StudentService) Create(ctx context.Context, actor Actor, req model.CreateStudentRequest) (*model.Student, error) {
	if err := s.domains.RequireClass(req.Email, model.ClassStudent); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.references,
		refCheck{model.KindFaculty, req.FacultyID},
		refCheck{model.KindLevel, req.LevelID},
		refCheck{model.KindNationality, req.NationalityID},
		refCheck{model.KindGovernorate, req.GovID},
	); err != nil {
		return nil, err
	}
	if err := checkStudentUnique(ctx, s.students, req.Email, req.NationalID, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	st := &model.Student{
		UserName:      req.UserName,
		Email:         strings.ToLower(req.Email),
		PasswordHash:  hash,
		NationalID:    req.NationalID,
		Phone:         req.Phone,
		Gender:        req.Gender,
		LevelID:       req.LevelID,
		GovID:         req.GovID,
		FacultyID:     req.FacultyID,
		NationalityID: req.NationalityID,
		Verified:      true,
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}

	s.audit.Record(ctx, actor, model.AuditAddStudent, map[string]any{"student_id": st.ID, "email": st.Email})
	return st, nil
}

// Update applies an admin-side edit, including faculty.
func (s *StudentService) Update(ctx context.Context, actor Actor, id int, req model.UpdateStudentRequest) (*model.StudentProfile, error) {
	if err := s.domains.RequireClass(req.Email, model.ClassStudent); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.references,
		refCheck{model.KindLevel, req.LevelID},
		refCheck{model.KindGovernorate, req.GovID},
		refCheck{model.KindFaculty, req.FacultyID},
	); err != nil {
		return nil, err
	}
	if err := checkStudentUnique(ctx, s.students, req.Email, req.NationalID, id); err != nil {
		return nil, err
	}
	if err := s.students.AdminUpdate(ctx, id, req); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}

	s.audit.Record(ctx, actor, model.AuditUpdateStudent, map[string]any{"student_id": id})
	return s.GetProfile(ctx, id)
}

// Delete removes a student together with their reservations.
func (s *StudentService) Delete(ctx context.Context, actor Actor, id int) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	s.audit.Record(ctx, actor, model.AuditDeleteStudent, map[string]any{"student_id": id})
	return nil
}

// SetBlocked blocks or unblocks a student. A blocked student's tokens stop
// working on the next request.
func (s *StudentService) SetBlocked(ctx context.Context, actor Actor, id int, blocked bool) error {
	if err := s.students.SetBlocked(ctx, id, blocked); err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	action := model.AuditUnblockStudent
	if blocked {
		action = model.AuditBlockStudent
	}
	s.audit.Record(ctx, actor, action, map[string]any{"student_id": id})
	return nil
}

// SendObservation mails a free-text note to a student.
func (s *StudentService) SendObservation(ctx context.Context, actor Actor, id int, message string) error {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}

	if err := s.notifier.Send(ctx, model.Mail{
		To:   st.Email,
		Kind: model.MailObservation,
		Data: map[string]string{"name": st.UserName, "message": message, "from": actor.Name},
	}); err != nil {
		return storageErr(err)
	}

	s.audit.Record(ctx, actor, model.AuditSendObservation, map[string]any{"student_id": id})
	return nil
}
