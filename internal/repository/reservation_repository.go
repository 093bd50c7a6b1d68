package repository

import (
	"context"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `m.id, m.student_id, m.clinic_id, m.date, m.exam_type, m.status, m.transferred, m.created_at, m.updated_at`

const reservationDetailSelect = `SELECT ` + reservationColumns + `,
		COALESCE(c.name, ''), s.user_name, s.national_id,
		t.id, t.clinic_id, t.ex_hosp_id, t.reason, t.notes, t.created_at, t.updated_at
	 FROM medical_examinations m
	 JOIN students s ON s.id = m.student_id
	 LEFT JOIN clinics c ON c.id = m.clinic_id
	 LEFT JOIN transfers t ON t.medic_ex_id = m.id`

// ReservationRepository handles medical examination data access.
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new ReservationRepository.
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func reservationDest(m *model.Reservation) []any {
	return []any{&m.ID, &m.StudentID, &m.ClinicID, &m.Date, &m.ExamType, &m.Status, &m.Transferred, &m.CreatedAt, &m.UpdatedAt}
}

func scanReservationDetail(row pgx.Row) (*model.ReservationDetail, error) {
	var (
		d          model.ReservationDetail
		tID        *int
		tClinicID  *int
		tExHospID  *int
		tReason    *string
		tNotes     *string
		tCreatedAt *time.Time
		tUpdatedAt *time.Time
	)
	dest := append(reservationDest(&d.Reservation),
		&d.ClinicName, &d.StudentName, &d.NationalID,
		&tID, &tClinicID, &tExHospID, &tReason, &tNotes, &tCreatedAt, &tUpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if tID != nil {
		d.Transfer = &model.Transfer{
			ID:        *tID,
			StudentID: d.StudentID,
			MedicExID: d.ID,
			ClinicID:  *tClinicID,
			ExHospID:  *tExHospID,
			Reason:    *tReason,
			Notes:     *tNotes,
			CreatedAt: *tCreatedAt,
			UpdatedAt: *tUpdatedAt,
		}
	}
	return &d, nil
}

// LockDate takes a transaction-scoped advisory lock on a calendar day so
// concurrent bookings for that day serialize their capacity checks.
// Must be called inside a transaction.
func (r *ReservationRepository) LockDate(ctx context.Context, date time.Time) error {
	_, err := conn(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, date.Format(model.DateLayout))
	return translate(err)
}

// CountByDate counts reservations on a day, ignoring excludeID (0 for none).
func (r *ReservationRepository) CountByDate(ctx context.Context, date time.Time, excludeID int) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_examinations WHERE date = $1 AND id <> $2`, date, excludeID,
	).Scan(&n)
	return n, translate(err)
}

// CountByStudentAndDate counts a student's reservations on a day, ignoring excludeID.
func (r *ReservationRepository) CountByStudentAndDate(ctx context.Context, studentID int, date time.Time, excludeID int) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_examinations WHERE student_id = $1 AND date = $2 AND id <> $3`,
		studentID, date, excludeID,
	).Scan(&n)
	return n, translate(err)
}

// Create inserts a pending reservation and fills in ID and timestamps.
func (r *ReservationRepository) Create(ctx context.Context, m *model.Reservation) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO medical_examinations (student_id, clinic_id, date, exam_type, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, transferred, created_at, updated_at`,
		m.StudentID, m.ClinicID, m.Date, m.ExamType, m.Status,
	).Scan(&m.ID, &m.Transferred, &m.CreatedAt, &m.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id int) (*model.Reservation, error) {
	m := &model.Reservation{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM medical_examinations m WHERE m.id = $1`, id,
	).Scan(reservationDest(m)...)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// GetByIDForUpdate retrieves a reservation and row-locks it until the
// surrounding transaction ends.
func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, id int) (*model.Reservation, error) {
	m := &model.Reservation{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM medical_examinations m WHERE m.id = $1 FOR UPDATE`, id,
	).Scan(reservationDest(m)...)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// GetDetail retrieves a reservation with its clinic, student and transfer.
func (r *ReservationRepository) GetDetail(ctx context.Context, id int) (*model.ReservationDetail, error) {
	d, err := scanReservationDetail(conn(ctx, r.db).QueryRow(ctx, reservationDetailSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// Update replaces the editable fields of a reservation.
func (r *ReservationRepository) Update(ctx context.Context, m *model.Reservation) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`UPDATE medical_examinations
		 SET clinic_id = $1, date = $2, exam_type = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING updated_at`,
		m.ClinicID, m.Date, m.ExamType, m.ID,
	).Scan(&m.UpdatedAt)
	return translate(err)
}

// Delete removes a reservation.
func (r *ReservationRepository) Delete(ctx context.Context, id int) error {
	return execOne(ctx, conn(ctx, r.db), `DELETE FROM medical_examinations WHERE id = $1`, id)
}

// SetStatus records an accept/decline decision.
func (r *ReservationRepository) SetStatus(ctx context.Context, id int, status model.ReservationStatus) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE medical_examinations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

// SetTransferred flags a reservation as handed to an external hospital.
func (r *ReservationRepository) SetTransferred(ctx context.Context, id int) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE medical_examinations SET transferred = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

// ReconcileTransferred sets the transferred flag on every reservation that
// has a transfer row but is not flagged yet.
func (r *ReservationRepository) ReconcileTransferred(ctx context.Context) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE medical_examinations m SET transferred = TRUE, updated_at = NOW()
		 WHERE NOT m.transferred AND EXISTS (SELECT 1 FROM transfers t WHERE t.medic_ex_id = m.id)`)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

// ListByStudent returns a page of a student's reservations, newest first.
func (r *ReservationRepository) ListByStudent(ctx context.Context, studentID, limit, offset int) ([]model.ReservationDetail, int, error) {
	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_examinations WHERE student_id = $1`, studentID,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	rows, err := q.Query(ctx,
		reservationDetailSelect+` WHERE m.student_id = $1 ORDER BY m.created_at DESC, m.id DESC LIMIT $2 OFFSET $3`,
		studentID, limit, offset)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	list := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}

// ListPaginated returns reservations matching the admin filter with total count.
func (r *ReservationRepository) ListPaginated(ctx context.Context, f model.ReservationFilter, limit, offset int) ([]model.ReservationDetail, int, error) {
	var wb whereBuilder
	if f.Status != "" {
		wb.add("m.status = ?", f.Status)
	}
	if f.ExamType != "" {
		wb.add("m.exam_type ILIKE ?", like(f.ExamType))
	}
	if f.Date != "" {
		if day, err := time.Parse(model.DateLayout, f.Date); err == nil {
			wb.add("m.date = ?", day)
		}
	}
	if f.ClinicID > 0 {
		wb.add("m.clinic_id = ?", f.ClinicID)
	}
	if f.Search != "" {
		wb.add("(s.user_name ILIKE ? OR s.national_id ILIKE ?)", like(f.Search))
	}

	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_examinations m JOIN students s ON s.id = m.student_id`+wb.clause(),
		wb.args...,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx, reservationDetailSelect+wb.clause()+` ORDER BY m.date DESC, m.id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	list := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	return list, total, rows.Err()
}
