package repository

import (
	"context"
	"fmt"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// ReferenceRepository handles the six name-keyed reference tables. The
// table name always comes from a model.ReferenceKind, never from input.
type ReferenceRepository struct {
	db DB
}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(db DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// List returns every row of a reference table ordered by name.
func (r *ReferenceRepository) List(ctx context.Context, kind model.ReferenceKind) ([]model.Reference, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s ORDER BY name`, kind.Table))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	list := []model.Reference{}
	for rows.Next() {
		var ref model.Reference
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, ref)
	}
	return list, rows.Err()
}

// GetByID retrieves one reference row.
func (r *ReferenceRepository) GetByID(ctx context.Context, kind model.ReferenceKind, id int) (*model.Reference, error) {
	ref := &model.Reference{}
	err := conn(ctx, r.db).QueryRow(ctx,
		fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id = $1`, kind.Table), id,
	).Scan(&ref.ID, &ref.Name, &ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return ref, nil
}

// Exists reports whether a reference row with the given ID exists.
func (r *ReferenceRepository) Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, kind.Table), id,
	).Scan(&exists)
	return exists, translate(err)
}

// Create inserts a reference row. A duplicate name fails with ErrDuplicate.
func (r *ReferenceRepository) Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.Reference, error) {
	ref := &model.Reference{Name: name}
	err := conn(ctx, r.db).QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, created_at, updated_at`, kind.Table), name,
	).Scan(&ref.ID, &ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return ref, nil
}

// Update renames a reference row.
func (r *ReferenceRepository) Update(ctx context.Context, kind model.ReferenceKind, id int, name string) (*model.Reference, error) {
	ref := &model.Reference{ID: id, Name: name}
	err := conn(ctx, r.db).QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING created_at, updated_at`, kind.Table),
		name, id,
	).Scan(&ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return ref, nil
}

// Delete removes a reference row. Rows still referenced fail with ErrInvalidReference.
func (r *ReferenceRepository) Delete(ctx context.Context, kind model.ReferenceKind, id int) error {
	return execOne(ctx, conn(ctx, r.db), fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind.Table), id)
}
