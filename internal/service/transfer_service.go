package service

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/rs/zerolog"
)

// TransferService hands accepted examinations to external hospitals.
type TransferService struct {
	tx           Transactor
	reservations ReservationStore
	transfers    TransferStore
	students     StudentStore
	references   ReferenceStore
	audit        *AuditService
	log          zerolog.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	tx Transactor,
	reservations ReservationStore,
	transfers TransferStore,
	students StudentStore,
	references ReferenceStore,
	audit *AuditService,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		tx:           tx,
		reservations: reservations,
		transfers:    transfers,
		students:     students,
		references:   references,
		audit:        audit,
		log:          log.With().Str("component", "transfer").Logger(),
	}
}

func (s *TransferService) requireStudent(ctx context.Context, id int) error {
	ok, err := s.students.Exists(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return ErrUnknownStudent
	}
	return nil
}

func (s *TransferService) requireReference(ctx context.Context, kind model.ReferenceKind, id int, missing error) error {
	ok, err := s.references.Exists(ctx, kind, id)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return missing
	}
	return nil
}

// Transfer records the transfer, flags the examination and appends the
// audit entry in one transaction. The checks run in a fixed order so each
// violated precondition yields its own error.
func (s *TransferService) Transfer(ctx context.Context, actor Actor, req model.CreateTransferRequest) (*model.Transfer, error) {
	t := &model.Transfer{
		StudentID: req.StudentID,
		MedicExID: req.ExamID,
		ClinicID:  req.ClinicID,
		ExHospID:  req.ExHospID,
		Reason:    req.Reason,
		Notes:     req.Notes,
	}

	var entry *model.AdminLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.reservations.GetByIDForUpdate(ctx, req.ExamID)
		if err != nil {
			return mapNotFound(err, ErrNotAccepted)
		}
		if m.Status != model.ReservationAccepted {
			return ErrNotAccepted
		}
		if err := s.requireStudent(ctx, req.StudentID); err != nil {
			return err
		}
		if err := s.requireReference(ctx, model.KindClinic, req.ClinicID, ErrUnknownClinic); err != nil {
			return err
		}
		if err := s.requireReference(ctx, model.KindHospital, req.ExHospID, ErrUnknownHospital); err != nil {
			return err
		}

		if err := s.transfers.Create(ctx, t); err != nil {
			return mapWrite(err, ErrUnknownReference)
		}
		if err := s.reservations.SetTransferred(ctx, m.ID); err != nil {
			return storageErr(err)
		}

		entry, err = s.audit.Append(ctx, actor, model.AuditTransfer, map[string]any{
			"transfer_id": t.ID,
			"exam_id":     t.MedicExID,
			"student_id":  t.StudentID,
			"ex_hosp_id":  t.ExHospID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.Transferred()
	s.audit.Announce(ctx, entry)
	return t, nil
}

// UpdateTransfer overwrites a transfer's editable fields with an audit entry.
func (s *TransferService) UpdateTransfer(ctx context.Context, actor Actor, id int, req model.UpdateTransferRequest) (*model.Transfer, error) {
	var (
		t     *model.Transfer
		entry *model.AdminLog
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.transfers.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, ErrNotFound)
		}
		if err := s.requireStudent(ctx, req.StudentID); err != nil {
			return err
		}
		if err := s.requireReference(ctx, model.KindHospital, req.ExHospID, ErrUnknownHospital); err != nil {
			return err
		}

		t.StudentID = req.StudentID
		t.ExHospID = req.ExHospID
		t.Reason = req.Reason
		t.Notes = req.Notes
		if err := s.transfers.Update(ctx, t); err != nil {
			return mapWrite(err, ErrUnknownReference)
		}

		entry, err = s.audit.Append(ctx, actor, model.AuditUpdateTransfer, map[string]any{
			"transfer_id": t.ID,
			"student_id":  t.StudentID,
			"ex_hosp_id":  t.ExHospID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return t, nil
}

// ListTransfers returns a filtered page of transfers with display names.
func (s *TransferService) ListTransfers(ctx context.Context, filter model.TransferFilter, page, perPage int) ([]model.TransferDetail, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.transfers.ListPaginated(ctx, filter, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// Reconcile flags examinations that already have a transfer row.
func (s *TransferService) Reconcile(ctx context.Context) (int64, error) {
	n, err := s.reservations.ReconcileTransferred(ctx)
	if err != nil {
		return 0, storageErr(err)
	}
	if n > 0 {
		s.log.Warn().Int64("repaired", n).Msg("Reconciled transferred flags")
	}
	return n, nil
}
