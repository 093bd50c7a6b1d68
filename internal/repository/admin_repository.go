package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

const adminColumns = `id, user_name, email, password_hash, role, live, password_changed_at, created_at, updated_at`

// AdminRepository handles admin data access.
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func adminDest(a *model.Admin) []any {
	return []any{&a.ID, &a.UserName, &a.Email, &a.PasswordHash, &a.Role, &a.Live, &a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt}
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id,
	).Scan(adminDest(a)...)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetByEmail retrieves an admin by their unique email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE LOWER(email) = LOWER($1)`, email,
	).Scan(adminDest(a)...)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// Taken reports whether another admin already uses the email or user name.
func (r *AdminRepository) Taken(ctx context.Context, email, userName string, excludeID int) (bool, error) {
	var taken bool
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins
		 WHERE (LOWER(email) = LOWER($1) OR LOWER(user_name) = LOWER($2)) AND id <> $3)`,
		email, userName, excludeID,
	).Scan(&taken)
	return taken, translate(err)
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO admins (user_name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.UserName, a.Email, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

// Update changes an admin's name, email and role.
func (r *AdminRepository) Update(ctx context.Context, id int, req model.UpdateAdminRequest) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE admins SET user_name = $1, email = $2, role = $3, updated_at = NOW() WHERE id = $4`,
		req.UserName, req.Email, req.Role, id,
	)
}

// UpdatePassword replaces the hash and revokes every earlier token.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE admins SET password_hash = $1, password_changed_at = NOW(), live = FALSE, updated_at = NOW() WHERE id = $2`,
		hash, id,
	)
}

// SetLive records whether the admin currently holds a session.
func (r *AdminRepository) SetLive(ctx context.Context, id int, live bool) error {
	return execOne(ctx, conn(ctx, r.db), `UPDATE admins SET live = $1 WHERE id = $2`, live, id)
}

// Delete removes an admin.
func (r *AdminRepository) Delete(ctx context.Context, id int) error {
	return execOne(ctx, conn(ctx, r.db), `DELETE FROM admins WHERE id = $1`, id)
}

// ListPaginated retrieves admins with an optional name/email search and role filter.
func (r *AdminRepository) ListPaginated(ctx context.Context, search string, role model.Role, limit, offset int) ([]model.Admin, int, error) {
	var wb whereBuilder
	if search != "" {
		wb.add("(user_name ILIKE ? OR email ILIKE ?)", like(search))
	}
	if role != "" {
		wb.add("role = ?", role)
	}

	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admins`+wb.clause(), wb.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx, `SELECT `+adminColumns+` FROM admins`+wb.clause()+` ORDER BY id`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	admins := []model.Admin{}
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(adminDest(&a)...); err != nil {
			return nil, 0, err
		}
		admins = append(admins, a)
	}
	return admins, total, rows.Err()
}
