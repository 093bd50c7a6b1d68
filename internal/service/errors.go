package service

import (
	"errors"
	"fmt"

	"github.com/hsh-clinic/clinic-backend/internal/repository"
)

// Domain errors. Handlers map these onto HTTP statuses.
var (
	ErrMalformedRequest   = errors.New("malformed request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfirmed       = errors.New("login not confirmed")
	ErrNotVerified        = errors.New("account not verified")
	ErrBlocked            = errors.New("account blocked")

	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrSessionStale  = errors.New("session stale")
	ErrIdentityGone  = errors.New("identity no longer exists")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrDependencyUse = errors.New("record still referenced")

	ErrLimitReached       = errors.New("daily reservation capacity reached")
	ErrDailyLimitExceeded = errors.New("student already has a reservation that day")
	ErrAlreadyAccepted    = errors.New("reservation already accepted")
	ErrNotAccepted        = errors.New("reservation not accepted")

	ErrUnknownStudent   = errors.New("unknown student")
	ErrUnknownClinic    = errors.New("unknown clinic")
	ErrUnknownHospital  = errors.New("unknown external hospital")
	ErrUnknownReference = errors.New("unknown reference")

	ErrStorage = errors.New("storage error")
)

// storageErr wraps a lower-layer failure as ErrStorage.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// mapNotFound turns repository.ErrNotFound into target and anything else into ErrStorage.
func mapNotFound(err, target error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return storageErr(err)
}

// mapWrite translates a failed insert or update: duplicates become
// ErrConflict, dangling foreign keys become ref, missing rows ErrNotFound.
func mapWrite(err, ref error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidReference):
		return ref
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	}
	return storageErr(err)
}
