package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// StatisticsRepository handles read-only dashboard aggregates.
type StatisticsRepository struct {
	db DB
}

// NewStatisticsRepository creates a new StatisticsRepository.
func NewStatisticsRepository(db DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// GetSummaryCounts fills the row counts of a Statistics value.
func (r *StatisticsRepository) GetSummaryCounts(ctx context.Context) (*model.Statistics, error) {
	s := &model.Statistics{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM medical_examinations),
			(SELECT COUNT(*) FROM emergency_reservations),
			(SELECT COUNT(*) FROM clinics),
			(SELECT COUNT(*) FROM admins),
			(SELECT COUNT(*) FROM super_admins),
			(SELECT COUNT(*) FROM transfers)`,
	).Scan(&s.Students, &s.Reservations, &s.EmergencyReservations, &s.Clinics, &s.Admins, &s.SuperAdmins, &s.Transfers)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetStatusCounts retrieves the distribution of reservations by status.
func (r *StatisticsRepository) GetStatusCounts(ctx context.Context) (map[model.ReservationStatus]int, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT status, COUNT(*) FROM medical_examinations GROUP BY status`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	counts := make(map[model.ReservationStatus]int)
	for rows.Next() {
		var status model.ReservationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetClinicCounts returns every clinic that has reservations with its count,
// in clinic ID order.
func (r *StatisticsRepository) GetClinicCounts(ctx context.Context) ([]model.ClinicCount, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT c.id, c.name, COUNT(m.id)
		 FROM clinics c JOIN medical_examinations m ON m.clinic_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY c.id`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	list := []model.ClinicCount{}
	for rows.Next() {
		var c model.ClinicCount
		if err := rows.Scan(&c.ClinicID, &c.ClinicName, &c.Count); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetMonthlyCounts returns reservation counts per month of the given year.
// Months without reservations are absent.
func (r *StatisticsRepository) GetMonthlyCounts(ctx context.Context, year int) (map[int]int, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT EXTRACT(MONTH FROM date)::int, COUNT(*)
		 FROM medical_examinations
		 WHERE EXTRACT(YEAR FROM date)::int = $1
		 GROUP BY 1`, year)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		counts[month] = count
	}
	return counts, rows.Err()
}
