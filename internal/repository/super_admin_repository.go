package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

const superAdminColumns = `id, name, email, password_hash, role, confirmed, live, password_changed_at, created_at`

// SuperAdminRepository handles super admin data access.
type SuperAdminRepository struct {
	db DB
}

// NewSuperAdminRepository creates a new SuperAdminRepository.
func NewSuperAdminRepository(db DB) *SuperAdminRepository {
	return &SuperAdminRepository{db: db}
}

func superAdminDest(s *model.SuperAdmin) []any {
	return []any{&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Confirmed, &s.Live, &s.PasswordChangedAt, &s.CreatedAt}
}

// GetByID retrieves a super admin by ID.
func (r *SuperAdminRepository) GetByID(ctx context.Context, id int) (*model.SuperAdmin, error) {
	s := &model.SuperAdmin{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+superAdminColumns+` FROM super_admins WHERE id = $1`, id,
	).Scan(superAdminDest(s)...)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetByEmail retrieves a super admin by email.
func (r *SuperAdminRepository) GetByEmail(ctx context.Context, email string) (*model.SuperAdmin, error) {
	s := &model.SuperAdmin{}
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+superAdminColumns+` FROM super_admins WHERE LOWER(email) = LOWER($1)`, email,
	).Scan(superAdminDest(s)...)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// Create inserts a new, unconfirmed super admin.
func (r *SuperAdminRepository) Create(ctx context.Context, s *model.SuperAdmin) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO super_admins (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, confirmed, created_at`,
		s.Name, s.Email, s.PasswordHash, model.RoleSuperAdmin,
	).Scan(&s.ID, &s.Confirmed, &s.CreatedAt)
	if err != nil {
		return translate(err)
	}
	s.Role = model.RoleSuperAdmin
	return nil
}

// SetConfirmedByEmail marks the super admin with the given email as confirmed.
func (r *SuperAdminRepository) SetConfirmedByEmail(ctx context.Context, email string) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE super_admins SET confirmed = TRUE WHERE LOWER(email) = LOWER($1)`, email)
}

// SetLive records whether the super admin currently holds a session.
func (r *SuperAdminRepository) SetLive(ctx context.Context, id int, live bool) error {
	return execOne(ctx, conn(ctx, r.db), `UPDATE super_admins SET live = $1 WHERE id = $2`, live, id)
}

// CloseWindow ends a super admin's session window. The next login must be
// confirmed by email again.
func (r *SuperAdminRepository) CloseWindow(ctx context.Context, id int) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE super_admins SET live = FALSE, confirmed = FALSE WHERE id = $1`, id)
}

// UpdatePassword replaces the hash and revokes every earlier token.
func (r *SuperAdminRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return execOne(ctx, conn(ctx, r.db),
		`UPDATE super_admins SET password_hash = $1, password_changed_at = NOW() WHERE id = $2`, hash, id)
}

// ListLive returns the IDs of super admins currently marked live.
func (r *SuperAdminRepository) ListLive(ctx context.Context) ([]int, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id FROM super_admins WHERE live ORDER BY id`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns every super admin.
func (r *SuperAdminRepository) List(ctx context.Context) ([]model.SuperAdmin, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+superAdminColumns+` FROM super_admins ORDER BY id`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	admins := []model.SuperAdmin{}
	for rows.Next() {
		var s model.SuperAdmin
		if err := rows.Scan(superAdminDest(&s)...); err != nil {
			return nil, err
		}
		admins = append(admins, s)
	}
	return admins, rows.Err()
}
