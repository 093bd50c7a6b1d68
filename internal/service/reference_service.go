package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
)

// ReferenceService handles CRUD for the six name-keyed reference tables.
type ReferenceService struct {
	references ReferenceStore
	audit      *AuditService
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(references ReferenceStore, audit *AuditService) *ReferenceService {
	return &ReferenceService{references: references, audit: audit}
}

// List returns every row of a reference table.
func (s *ReferenceService) List(ctx context.Context, kind model.ReferenceKind) ([]model.Reference, error) {
	list, err := s.references.List(ctx, kind)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// Get retrieves one reference row.
func (s *ReferenceService) Get(ctx context.Context, kind model.ReferenceKind, id int) (*model.Reference, error) {
	ref, err := s.references.GetByID(ctx, kind, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return ref, nil
}

// Create adds a row. A duplicate name fails with ErrConflict.
func (s *ReferenceService) Create(ctx context.Context, actor Actor, kind model.ReferenceKind, name string) (*model.Reference, error) {
	ref, err := s.references.Create(ctx, kind, strings.TrimSpace(name))
	if err != nil {
		return nil, mapWrite(err, ErrMalformedRequest)
	}
	s.audit.Record(ctx, actor, model.AuditAddReference, map[string]any{"kind": kind.Slug, "id": ref.ID, "name": ref.Name})
	return ref, nil
}

// Update renames a row.
func (s *ReferenceService) Update(ctx context.Context, actor Actor, kind model.ReferenceKind, id int, name string) (*model.Reference, error) {
	ref, err := s.references.Update(ctx, kind, id, strings.TrimSpace(name))
	if err != nil {
		return nil, mapWrite(err, ErrMalformedRequest)
	}
	s.audit.Record(ctx, actor, model.AuditUpdateReference, map[string]any{"kind": kind.Slug, "id": id, "name": ref.Name})
	return ref, nil
}

// Delete removes a row. Rows still referenced fail with ErrDependencyUse.
func (s *ReferenceService) Delete(ctx context.Context, actor Actor, kind model.ReferenceKind, id int) error {
	if err := s.references.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return ErrDependencyUse
		}
		return mapNotFound(err, ErrNotFound)
	}
	s.audit.Record(ctx, actor, model.AuditDeleteReference, map[string]any{"kind": kind.Slug, "id": id})
	return nil
}
