package service

import (
	"context"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/rs/zerolog"
)

// ReservationService implements the medical examination lifecycle:
// pending -> accepted | declined, and cancel while not accepted.
type ReservationService struct {
	cfg          *config.Config
	tx           Transactor
	reservations ReservationStore
	students     StudentStore
	audit        *AuditService
	log          zerolog.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	cfg *config.Config,
	tx Transactor,
	reservations ReservationStore,
	students StudentStore,
	audit *AuditService,
	log zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		cfg:          cfg,
		tx:           tx,
		reservations: reservations,
		students:     students,
		audit:        audit,
		log:          log.With().Str("component", "reservation").Logger(),
	}
}

func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrMalformedRequest
	}
	return day, nil
}

// checkCapacity enforces the system-wide daily cap and the one-per-day
// student limit. Must run under the date lock.
func (s *ReservationService) checkCapacity(ctx context.Context, studentID int, day time.Time, excludeID int) error {
	if err := s.reservations.LockDate(ctx, day); err != nil {
		return storageErr(err)
	}

	total, err := s.reservations.CountByDate(ctx, day, excludeID)
	if err != nil {
		return storageErr(err)
	}
	if total >= s.cfg.ReservationDailyCap {
		return ErrLimitReached
	}

	mine, err := s.reservations.CountByStudentAndDate(ctx, studentID, day, excludeID)
	if err != nil {
		return storageErr(err)
	}
	if mine > 0 {
		return ErrDailyLimitExceeded
	}
	return nil
}

// Create books a pending examination for a student.
func (s *ReservationService) Create(ctx context.Context, studentID int, req model.CreateReservationRequest) (*model.Reservation, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	m := &model.Reservation{
		StudentID: studentID,
		ClinicID:  req.ClinicID,
		Date:      day,
		ExamType:  req.ExamType,
		Status:    model.ReservationPending,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkCapacity(ctx, studentID, day, 0); err != nil {
			return err
		}

		exists, err := s.students.Exists(ctx, studentID)
		if err != nil {
			return storageErr(err)
		}
		if !exists {
			return ErrUnknownStudent
		}

		return mapWrite(s.reservations.Create(ctx, m), ErrUnknownClinic)
	})
	if err != nil {
		return nil, err
	}

	metrics.ReservationCreated()
	return m, nil
}

// Update edits a student's own reservation. Capacity is re-checked only
// when the date moves.
func (s *ReservationService) Update(ctx context.Context, studentID, examID int, req model.UpdateReservationRequest) (*model.Reservation, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	var m *model.Reservation
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.reservations.GetByIDForUpdate(ctx, examID)
		if err != nil {
			return mapNotFound(err, ErrNotFound)
		}
		if m.StudentID != studentID {
			return ErrNotFound
		}
		if m.Status == model.ReservationAccepted {
			return ErrAlreadyAccepted
		}

		if !m.Date.Equal(day) {
			if err := s.checkCapacity(ctx, studentID, day, m.ID); err != nil {
				return err
			}
		}

		m.ClinicID = req.ClinicID
		m.Date = day
		m.ExamType = req.ExamType
		return mapWrite(s.reservations.Update(ctx, m), ErrUnknownClinic)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// View returns one of the student's reservations with its clinic and transfer.
func (s *ReservationService) View(ctx context.Context, studentID, examID int) (*model.ReservationDetail, error) {
	d, err := s.reservations.GetDetail(ctx, examID)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if d.StudentID != studentID {
		return nil, ErrNotFound
	}
	return d, nil
}

// ListMine returns a page of the student's reservations, newest first.
func (s *ReservationService) ListMine(ctx context.Context, studentID, page, perPage int) ([]model.ReservationDetail, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.reservations.ListByStudent(ctx, studentID, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// AdminList returns a filtered page of all reservations.
func (s *ReservationService) AdminList(ctx context.Context, filter model.ReservationFilter, page, perPage int) ([]model.ReservationDetail, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.reservations.ListPaginated(ctx, filter, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// AcceptOrDecline records an admin decision and its audit entry atomically.
func (s *ReservationService) AcceptOrDecline(ctx context.Context, actor Actor, examID int, decision model.Decision) error {
	status := decision.Status()
	action := model.AuditDeclineExam
	if status == model.ReservationAccepted {
		action = model.AuditAcceptExam
	}

	var entry *model.AdminLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reservations.SetStatus(ctx, examID, status); err != nil {
			return mapNotFound(err, ErrNotFound)
		}
		var err error
		entry, err = s.audit.Append(ctx, actor, action, map[string]any{
			"exam_id": examID,
			"status":  status,
		})
		return err
	})
	if err != nil {
		return err
	}

	metrics.ReservationDecided(string(status))
	s.audit.Announce(ctx, entry)
	return nil
}

// Cancel deletes a student's reservation unless it was already accepted.
func (s *ReservationService) Cancel(ctx context.Context, studentID, examID int) error {
	m, err := s.reservations.GetByID(ctx, examID)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	if m.StudentID != studentID {
		return ErrNotFound
	}
	if m.Status == model.ReservationAccepted {
		return ErrAlreadyAccepted
	}
	return mapNotFound(s.reservations.Delete(ctx, examID), ErrNotFound)
}
