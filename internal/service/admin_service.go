package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
)

// AdminService manages admin and super admin accounts.
type AdminService struct {
	admins      AdminStore
	superAdmins SuperAdminStore
	domains     DomainMap
	hasher      PasswordHasher
	audit       *AuditService
}

// NewAdminService creates a new AdminService. Admin emails must resolve to
// the admin class in domains, super admin emails to the super admin class.
func NewAdminService(admins AdminStore, superAdmins SuperAdminStore, domains DomainMap, hasher PasswordHasher, audit *AuditService) *AdminService {
	return &AdminService{admins: admins, superAdmins: superAdmins, domains: domains, hasher: hasher, audit: audit}
}

func (s *AdminService) checkTaken(ctx context.Context, email, userName string, excludeID int) error {
	taken, err := s.admins.Taken(ctx, email, userName, excludeID)
	if err != nil {
		return storageErr(err)
	}
	if taken {
		return fmt.Errorf("%w: email or user name already in use", ErrConflict)
	}
	return nil
}

// Create adds an admin.
func (s *AdminService) Create(ctx context.Context, actor Actor, req model.CreateAdminRequest) (*model.Admin, error) {
	if !model.IsAdminRole(req.Role) {
		return nil, ErrMalformedRequest
	}
	if err := s.domains.RequireClass(req.Email, model.ClassAdmin); err != nil {
		return nil, err
	}
	if err := s.checkTaken(ctx, req.Email, req.UserName, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &model.Admin{
		UserName:     req.UserName,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.admins.Create(ctx, a); err != nil {
		return nil, mapWrite(err, ErrMalformedRequest)
	}

	s.audit.Record(ctx, actor, model.AuditAddAdmin, map[string]any{"admin_id": a.ID, "email": a.Email, "role": a.Role})
	return a, nil
}

// Get retrieves an admin by ID.
func (s *AdminService) Get(ctx context.Context, id int) (*model.Admin, error) {
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return a, nil
}

// List returns a page of admins.
func (s *AdminService) List(ctx context.Context, search string, role model.Role, page, perPage int) ([]model.Admin, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	list, total, err := s.admins.ListPaginated(ctx, search, role, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return list, response.NewPagination(page, perPage, total), nil
}

// Update changes an admin's name, email and role.
func (s *AdminService) Update(ctx context.Context, actor Actor, id int, req model.UpdateAdminRequest) (*model.Admin, error) {
	if !model.IsAdminRole(req.Role) {
		return nil, ErrMalformedRequest
	}
	if err := s.domains.RequireClass(req.Email, model.ClassAdmin); err != nil {
		return nil, err
	}
	if err := s.checkTaken(ctx, req.Email, req.UserName, id); err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(req.Email)
	if err := s.admins.Update(ctx, id, req); err != nil {
		return nil, mapWrite(err, ErrMalformedRequest)
	}

	s.audit.Record(ctx, actor, model.AuditUpdateAdmin, map[string]any{"admin_id": id, "role": req.Role})
	return s.Get(ctx, id)
}

// Delete removes an admin.
func (s *AdminService) Delete(ctx context.Context, actor Actor, id int) error {
	if err := s.admins.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrNotFound)
	}
	s.audit.Record(ctx, actor, model.AuditDeleteAdmin, map[string]any{"admin_id": id})
	return nil
}

// ResetPassword sets a new password for an admin. Admins may reset only
// their own password; super admins may reset anyone's. The admin's
// existing sessions become stale.
func (s *AdminService) ResetPassword(ctx context.Context, caller *Identity, id int, req model.ResetPasswordRequest) error {
	if caller.Class != model.ClassSuperAdmin && !(caller.Class == model.ClassAdmin && caller.ID == id) {
		return ErrForbidden
	}
	actor, err := caller.Actor()
	if err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, id, hash); err != nil {
		return mapNotFound(err, ErrNotFound)
	}

	s.audit.Record(ctx, actor, model.AuditResetPassword, map[string]any{"admin_id": id})
	return nil
}

// CreateSuperAdmin adds an unconfirmed super admin. Their first login
// sends a confirmation email.
func (s *AdminService) CreateSuperAdmin(ctx context.Context, actor Actor, req model.CreateSuperAdminRequest) (*model.SuperAdmin, error) {
	if err := s.domains.RequireClass(req.Email, model.ClassSuperAdmin); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sa := &model.SuperAdmin{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	}
	if err := s.superAdmins.Create(ctx, sa); err != nil {
		return nil, mapWrite(err, ErrMalformedRequest)
	}

	s.audit.Record(ctx, actor, model.AuditAddSuperAdmin, map[string]any{"super_admin_id": sa.ID, "email": sa.Email})
	return sa, nil
}
