package service

import (
	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// Allowed reports whether the identity carries one of roles.
func Allowed(id *Identity, roles ...model.Role) bool {
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// AllowedType reports whether the identity is of one of types.
func AllowedType(id *Identity, types ...model.IdentityType) bool {
	if id == nil {
		return false
	}
	for _, t := range types {
		if id.Type == t {
			return true
		}
	}
	return false
}

// AuthorizeOwner allows staff through and requires a student to own studentID.
func AuthorizeOwner(id *Identity, studentID int) error {
	if id == nil {
		return ErrForbidden
	}
	if id.Class != model.ClassStudent {
		return nil
	}
	if id.ID != studentID {
		return ErrForbidden
	}
	return nil
}
