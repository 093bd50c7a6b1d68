package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

const transferDetailSelect = `SELECT t.id, t.student_id, t.medic_ex_id, t.clinic_id, t.ex_hosp_id, t.reason, t.notes,
		t.created_at, t.updated_at,
		s.user_name, s.national_id, COALESCE(c.name, ''), COALESCE(h.name, '')
	 FROM transfers t
	 JOIN students s ON s.id = t.student_id
	 LEFT JOIN clinics c ON c.id = t.clinic_id
	 LEFT JOIN external_hospitals h ON h.id = t.ex_hosp_id`

// TransferRepository handles external-hospital transfer data access.
type TransferRepository struct {
	db DB
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func transferDetailDest(d *model.TransferDetail) []any {
	return []any{
		&d.ID, &d.StudentID, &d.MedicExID, &d.ClinicID, &d.ExHospID, &d.Reason, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
		&d.StudentName, &d.NationalID, &d.ClinicName, &d.HospitalName,
	}
}

// Create inserts a transfer. A second transfer for the same examination
// fails with ErrDuplicate.
func (r *TransferRepository) Create(ctx context.Context, t *model.Transfer) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO transfers (student_id, medic_ex_id, clinic_id, ex_hosp_id, reason, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.StudentID, t.MedicExID, t.ClinicID, t.ExHospID, t.Reason, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id int) (*model.Transfer, error) {
	t := &model.Transfer{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, student_id, medic_ex_id, clinic_id, ex_hosp_id, reason, notes, created_at, updated_at
		 FROM transfers WHERE id = $1`, id,
	).Scan(&t.ID, &t.StudentID, &t.MedicExID, &t.ClinicID, &t.ExHospID, &t.Reason, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// Update overwrites the editable fields of a transfer.
func (r *TransferRepository) Update(ctx context.Context, t *model.Transfer) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`UPDATE transfers
		 SET student_id = $1, ex_hosp_id = $2, reason = $3, notes = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		t.StudentID, t.ExHospID, t.Reason, t.Notes, t.ID,
	).Scan(&t.UpdatedAt)
	return translate(err)
}

// ListPaginated returns transfers matching the filter with total count.
func (r *TransferRepository) ListPaginated(ctx context.Context, f model.TransferFilter, limit, offset int) ([]model.TransferDetail, int, error) {
	var wb whereBuilder
	if f.ExHospID > 0 {
		wb.add("t.ex_hosp_id = ?", f.ExHospID)
	}
	if f.ClinicID > 0 {
		wb.add("t.clinic_id = ?", f.ClinicID)
	}
	if f.Search != "" {
		wb.add("(s.user_name ILIKE ? OR s.national_id ILIKE ?)", like(f.Search))
	}

	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM transfers t JOIN students s ON s.id = t.student_id`+wb.clause(), wb.args...,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx, transferDetailSelect+wb.clause()+` ORDER BY t.id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	list := []model.TransferDetail{}
	for rows.Next() {
		var d model.TransferDetail
		if err := rows.Scan(transferDetailDest(&d)...); err != nil {
			return nil, 0, err
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}
