package service

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
)

// EmergencyService handles admin-created walk-in reservations.
type EmergencyService struct {
	emergencies EmergencyStore
	references  ReferenceStore
	audit       *AuditService
}

// NewEmergencyService creates a new EmergencyService.
func NewEmergencyService(emergencies EmergencyStore, references ReferenceStore, audit *AuditService) *EmergencyService {
	return &EmergencyService{emergencies: emergencies, references: references, audit: audit}
}

func (s *EmergencyService) validate(ctx context.Context, req model.EmergencyReservationRequest) error {
	ok, err := s.references.Exists(ctx, model.KindClinic, req.ClinicID)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return ErrUnknownClinic
	}
	return checkReferences(ctx, s.references,
		refCheck{model.KindLevel, req.LevelID},
		refCheck{model.KindGovernorate, req.GovID},
		refCheck{model.KindFaculty, req.FacultyID},
		refCheck{model.KindNationality, req.NationalityID},
	)
}

func emergencyFrom(req model.EmergencyReservationRequest) *model.EmergencyReservation {
	return &model.EmergencyReservation{
		Name:          req.Name,
		NationalID:    req.NationalID,
		LevelID:       req.LevelID,
		ClinicID:      req.ClinicID,
		GovID:         req.GovID,
		FacultyID:     req.FacultyID,
		NationalityID: req.NationalityID,
	}
}

// Create records an emergency reservation.
func (s *EmergencyService) Create(ctx context.Context, actor Actor, req model.EmergencyReservationRequest) (*model.EmergencyReservation, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	e := emergencyFrom(req)
	if err := s.emergencies.Create(ctx, e); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}
	s.audit.Record(ctx, actor, model.AuditAddEmergency, map[string]any{"emergency_id": e.ID, "clinic_id": e.ClinicID})
	return e, nil
}

// Get retrieves one emergency reservation.
func (s *EmergencyService) Get(ctx context.Context, id int) (*model.EmergencyReservation, error) {
	e, err := s.emergencies.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return e, nil
}

// List returns a page of emergency reservations.
func (s *EmergencyService) List(ctx context.Context, search string, page, perPage int) ([]model.EmergencyReservation, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.emergencies.ListPaginated(ctx, search, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// Update replaces an emergency reservation.
func (s *EmergencyService) Update(ctx context.Context, actor Actor, id int, req model.EmergencyReservationRequest) (*model.EmergencyReservation, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	e := emergencyFrom(req)
	e.ID = id
	if err := s.emergencies.Update(ctx, e); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}
	s.audit.Record(ctx, actor, model.AuditUpdateEmergency, map[string]any{"emergency_id": id})
	return e, nil
}

// Delete removes an emergency reservation.
func (s *EmergencyService) Delete(ctx context.Context, actor Actor, id int) error {
	if err := s.emergencies.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	s.audit.Record(ctx, actor, model.AuditDeleteEmergency, map[string]any{"emergency_id": id})
	return nil
}
