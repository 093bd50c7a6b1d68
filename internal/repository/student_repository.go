package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

const studentColumns = `s.id, s.user_name, s.email, s.password_hash, s.national_id, s.phone, s.gender, s.birth_day,
	s.level_id, s.gov_id, s.faculty_id, s.nationality_id, s.image_ref, s.national_id_file_ref, s.fees_file_ref,
	s.verified, s.blocked, s.live, s.password_changed_at, s.created_at, s.updated_at`

const studentProfileJoins = `
	LEFT JOIN levels l ON l.id = s.level_id
	LEFT JOIN governorates g ON g.id = s.gov_id
	LEFT JOIN faculties f ON f.id = s.faculty_id
	LEFT JOIN nationalities n ON n.id = s.nationality_id`

// StudentRepository handles student data access.
type StudentRepository struct {
	db DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func studentDest(s *model.Student) []any {
	return []any{
		&s.ID, &s.UserName, &s.Email, &s.PasswordHash, &s.NationalID, &s.Phone, &s.Gender, &s.BirthDay,
		&s.LevelID, &s.GovID, &s.FacultyID, &s.NationalityID, &s.ImageRef, &s.NationalIDFileRef, &s.FeesFileRef,
		&s.Verified, &s.Blocked, &s.Live, &s.PasswordChangedAt, &s.CreatedAt, &s.UpdatedAt,
	}
}

func profileDest(p *model.StudentProfile) []any {
	return append(studentDest(&p.Student), &p.LevelName, &p.GovName, &p.FacultyName, &p.NationalityName)
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id,
	).Scan(studentDest(s)...)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetByEmail retrieves a student by email (case-insensitive).
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s := &model.Student{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students s WHERE LOWER(s.email) = LOWER($1)`, email,
	).Scan(studentDest(s)...)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetProfile retrieves a student joined with its reference-data names.
func (r *StudentRepository) GetProfile(ctx context.Context, id int) (*model.StudentProfile, error) {
	p := &model.StudentProfile{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+studentColumns+`,
			COALESCE(l.name, ''), COALESCE(g.name, ''), COALESCE(f.name, ''), COALESCE(n.name, '')
		 FROM students s`+studentProfileJoins+`
		 WHERE s.id = $1`, id,
	).Scan(profileDest(p)...)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Exists reports whether a student row with the given ID exists.
func (r *StudentRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
	return exists, translate(err)
}

// EmailTaken reports whether another student already uses the email.
func (r *StudentRepository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var taken bool
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE LOWER(email) = LOWER($1) AND id <> $2)`, email, excludeID,
	).Scan(&taken)
	return taken, translate(err)
}

// NationalIDTaken reports whether another student already uses the national ID.
func (r *StudentRepository) NationalIDTaken(ctx context.Context, nationalID string, excludeID int) (bool, error) {
	var taken bool
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE national_id = $1 AND id <> $2)`, nationalID, excludeID,
	).Scan(&taken)
	return taken, translate(err)
}

// Create inserts a new student and fills in ID and timestamps.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO students (user_name, email, password_hash, national_id, phone, gender, birth_day,
			level_id, gov_id, faculty_id, nationality_id, image_ref, national_id_file_ref, fees_file_ref, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id, created_at, updated_at`,
		s.UserName, s.Email, s.PasswordHash, s.NationalID, s.Phone, s.Gender, s.BirthDay,
		s.LevelID, s.GovID, s.FacultyID, s.NationalityID, s.ImageRef, s.NationalIDFileRef, s.FeesFileRef, s.Verified,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// UpdateProfile applies a student's self-service edit.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error {
	return r.execOne(ctx,
		`UPDATE students
		 SET user_name = $1, phone = $2, national_id = $3, level_id = $4, gov_id = $5, updated_at = NOW()
		 WHERE id = $6`,
		req.UserName, req.Phone, req.NationalID, req.LevelID, req.GovID, id,
	)
}

// AdminUpdate applies an admin-side edit, including faculty.
func (r *StudentRepository) AdminUpdate(ctx context.Context, id int, req model.UpdateStudentRequest) error {
	return r.execOne(ctx,
		`UPDATE students
		 SET user_name = $1, email = $2, national_id = $3, phone = $4,
		     level_id = $5, gov_id = $6, faculty_id = $7, updated_at = NOW()
		 WHERE id = $8`,
		req.UserName, req.Email, req.NationalID, req.Phone, req.LevelID, req.GovID, req.FacultyID, id,
	)
}

// UpdateImage stores a new profile photo reference.
func (r *StudentRepository) UpdateImage(ctx context.Context, id int, ref string) error {
	return r.execOne(ctx, `UPDATE students SET image_ref = $1, updated_at = NOW() WHERE id = $2`, ref, id)
}

// UpdatePassword replaces the hash and advances password_changed_at, which
// invalidates every token issued before now.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return r.execOne(ctx,
		`UPDATE students SET password_hash = $1, password_changed_at = NOW(), live = FALSE, updated_at = NOW() WHERE id = $2`,
		hash, id,
	)
}

// SetBlocked blocks or unblocks a student.
func (r *StudentRepository) SetBlocked(ctx context.Context, id int, blocked bool) error {
	return r.execOne(ctx, `UPDATE students SET blocked = $1, updated_at = NOW() WHERE id = $2`, blocked, id)
}

// SetLive records whether the student currently holds a session.
func (r *StudentRepository) SetLive(ctx context.Context, id int, live bool) error {
	return r.execOne(ctx, `UPDATE students SET live = $1 WHERE id = $2`, live, id)
}

// SetVerifiedByEmail marks the student with the given email as verified.
func (r *StudentRepository) SetVerifiedByEmail(ctx context.Context, email string) error {
	return r.execOne(ctx, `UPDATE students SET verified = TRUE, updated_at = NOW() WHERE LOWER(email) = LOWER($1)`, email)
}

// ResetAllVerified clears the verified flag of every student and returns how many changed.
func (r *StudentRepository) ResetAllVerified(ctx context.Context) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE students SET verified = FALSE, updated_at = NOW() WHERE verified`)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a student. Reservations and transfers cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	return r.execOne(ctx, `DELETE FROM students WHERE id = $1`, id)
}

// ListPaginated retrieves students matching the filter with total count.
func (r *StudentRepository) ListPaginated(ctx context.Context, f model.StudentFilter, limit, offset int) ([]model.StudentProfile, int, error) {
	var wb whereBuilder
	if f.Search != "" {
		wb.add("(s.user_name ILIKE ? OR s.national_id ILIKE ? OR s.email ILIKE ?)", like(f.Search))
	}
	if f.LevelID > 0 {
		wb.add("s.level_id = ?", f.LevelID)
	}
	if f.GovID > 0 {
		wb.add("s.gov_id = ?", f.GovID)
	}
	if f.FacultyID > 0 {
		wb.add("s.faculty_id = ?", f.FacultyID)
	}
	if f.NationalityID > 0 {
		wb.add("s.nationality_id = ?", f.NationalityID)
	}
	if f.Blocked != nil {
		wb.add("s.blocked = ?", *f.Blocked)
	}
	if f.Verified != nil {
		wb.add("s.verified = ?", *f.Verified)
	}

	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM students s`+wb.clause(), wb.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx,
		`SELECT `+studentColumns+`,
			COALESCE(l.name, ''), COALESCE(g.name, ''), COALESCE(f.name, ''), COALESCE(n.name, '')
		 FROM students s`+studentProfileJoins+wb.clause()+`
		 ORDER BY s.id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	students := []model.StudentProfile{}
	for rows.Next() {
		var p model.StudentProfile
		if err := rows.Scan(profileDest(&p)...); err != nil {
			return nil, 0, err
		}
		students = append(students, p)
	}
	return students, total, rows.Err()
}

func (r *StudentRepository) execOne(ctx context.Context, sql string, args ...any) error {
	return execOne(ctx, conn(ctx, r.db), sql, args...)
}

// execOne runs a statement that must touch at least one row.
func execOne(ctx context.Context, q Querier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
