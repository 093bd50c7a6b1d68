package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

const emergencyColumns = `id, name, national_id, level_id, clinic_id, gov_id, faculty_id, nationality_id, created_at, updated_at`

// EmergencyRepository handles emergency reservation data access.
type EmergencyRepository struct {
	db DB
}

// NewEmergencyRepository creates a new EmergencyRepository.
func NewEmergencyRepository(db DB) *EmergencyRepository {
	return &EmergencyRepository{db: db}
}

func emergencyDest(e *model.EmergencyReservation) []any {
	return []any{&e.ID, &e.Name, &e.NationalID, &e.LevelID, &e.ClinicID, &e.GovID, &e.FacultyID, &e.NationalityID, &e.CreatedAt, &e.UpdatedAt}
}

// Create inserts an emergency reservation.
func (r *EmergencyRepository) Create(ctx context.Context, e *model.EmergencyReservation) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO emergency_reservations (name, national_id, level_id, clinic_id, gov_id, faculty_id, nationality_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.NationalID, e.LevelID, e.ClinicID, e.GovID, e.FacultyID, e.NationalityID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

// GetByID retrieves an emergency reservation by ID.
func (r *EmergencyRepository) GetByID(ctx context.Context, id int) (*model.EmergencyReservation, error) {
	e := &model.EmergencyReservation{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+emergencyColumns+` FROM emergency_reservations WHERE id = $1`, id,
	).Scan(emergencyDest(e)...)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Update replaces every field of an emergency reservation.
func (r *EmergencyRepository) Update(ctx context.Context, e *model.EmergencyReservation) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`UPDATE emergency_reservations
		 SET name = $1, national_id = $2, level_id = $3, clinic_id = $4, gov_id = $5,
		     faculty_id = $6, nationality_id = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING created_at, updated_at`,
		e.Name, e.NationalID, e.LevelID, e.ClinicID, e.GovID, e.FacultyID, e.NationalityID, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

// Delete removes an emergency reservation.
func (r *EmergencyRepository) Delete(ctx context.Context, id int) error {
	return execOne(ctx, conn(ctx, r.db), `DELETE FROM emergency_reservations WHERE id = $1`, id)
}

// ListPaginated returns emergency reservations, newest first.
func (r *EmergencyRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.EmergencyReservation, int, error) {
	var wb whereBuilder
	if search != "" {
		wb.add("(name ILIKE ? OR national_id ILIKE ?)", like(search))
	}

	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM emergency_reservations`+wb.clause(), wb.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx, `SELECT `+emergencyColumns+` FROM emergency_reservations`+wb.clause()+` ORDER BY id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	list := []model.EmergencyReservation{}
	for rows.Next() {
		var e model.EmergencyReservation
		if err := rows.Scan(emergencyDest(&e)...); err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}
