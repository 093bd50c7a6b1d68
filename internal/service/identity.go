package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// DomainMap routes a login email to an identity class by its domain.
type DomainMap map[string]model.IdentityClass

// NewDomainMap validates configured "domain -> class" pairs.
func NewDomainMap(domains map[string]string) (DomainMap, error) {
	if len(domains) == 0 {
		return nil, errors.New("no login domains configured")
	}
	m := make(DomainMap, len(domains))
	for domain, class := range domains {
		c := model.IdentityClass(class)
		if !c.Valid() {
			return nil, fmt.Errorf("login domain %q: unknown identity class %q", domain, class)
		}
		m[strings.ToLower(domain)] = c
	}
	return m, nil
}

// ResolveIdentityClass returns the class whose domain matches email. The
// domain matches an entry exactly or as a subdomain of it. Zero matches,
// or matches naming different classes, fail with ErrMalformedRequest.
func (m DomainMap) ResolveIdentityClass(email string) (model.IdentityClass, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", ErrMalformedRequest
	}
	domain := email[at+1:]

	var found model.IdentityClass
	for d, class := range m {
		if domain != d && !strings.HasSuffix(domain, "."+d) {
			continue
		}
		if found != "" && found != class {
			return "", ErrMalformedRequest
		}
		found = class
	}
	if found == "" {
		return "", ErrMalformedRequest
	}
	return found, nil
}

// RequireClass fails with ErrMalformedRequest unless email logs into want.
func (m DomainMap) RequireClass(email string, want model.IdentityClass) error {
	class, err := m.ResolveIdentityClass(email)
	if err != nil {
		return err
	}
	if class != want {
		return fmt.Errorf("%w: %s does not log in as %s", ErrMalformedRequest, email, want)
	}
	return nil
}

// Identity is the caller resolved from a valid session token.
type Identity struct {
	Class     model.IdentityClass
	ID        int
	Name      string
	Email     string
	Role      model.Role
	Type      model.IdentityType
	SessionID string
	IssuedAt  time.Time
}

// Actor returns the audit attribution for a staff identity.
func (i *Identity) Actor() (Actor, error) {
	switch i.Class {
	case model.ClassAdmin:
		return AdminActor(i.ID, i.Name), nil
	case model.ClassSuperAdmin:
		return SuperAdminActor(i.ID, i.Name), nil
	}
	return Actor{}, ErrForbidden
}

// Actor identifies who performed an audited mutation. Build one with
// AdminActor or SuperAdminActor.
type Actor struct {
	Class model.IdentityClass
	ID    int
	Name  string
}

// AdminActor attributes an action to an admin.
func AdminActor(id int, name string) Actor {
	return Actor{Class: model.ClassAdmin, ID: id, Name: name}
}

// SuperAdminActor attributes an action to a super admin.
func SuperAdminActor(id int, name string) Actor {
	return Actor{Class: model.ClassSuperAdmin, ID: id, Name: name}
}

// typeOf maps an identity class onto its route-level type.
func typeOf(class model.IdentityClass) model.IdentityType {
	if class == model.ClassStudent {
		return model.TypeUser
	}
	return model.TypeAdmin
}

// studentTokenTTL lasts until the next 1 January in loc, rounded up to whole days.
func studentTokenTTL(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year()+1, time.January, 1, 0, 0, 0, 0, loc)
	days := math.Ceil(next.Sub(local).Hours() / 24)
	return time.Duration(days) * 24 * time.Hour
}

// isStale reports whether the password changed after the token was issued.
// Both sides are compared in whole seconds.
func isStale(changedAt *time.Time, issuedAt time.Time) bool {
	return changedAt != nil && changedAt.Unix() > issuedAt.Unix()
}
