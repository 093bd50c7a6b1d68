package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	audienceSession = "session"
	audienceLink    = "link"
)

// Claims extends JWT standard claims with the session identity.
type Claims struct {
	jwt.RegisteredClaims
	Class  model.IdentityClass `json:"class"`
	UserID int                 `json:"user_id"`
	Role   model.Role          `json:"role,omitempty"`
	Type   model.IdentityType  `json:"type"`
}

// LinkPurpose scopes a short-lived emailed link token.
type LinkPurpose string

const (
	PurposeConfirmLogin LinkPurpose = "confirm_login"
	PurposeActivate     LinkPurpose = "activate"
)

// LinkClaims is carried by confirmation and activation links.
type LinkClaims struct {
	jwt.RegisteredClaims
	Purpose LinkPurpose `json:"purpose"`
	Email   string      `json:"email"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Class     model.IdentityClass `json:"class"`
	Type      model.IdentityType  `json:"type"`
	Role      model.Role          `json:"role,omitempty"`
	UserID    int                 `json:"user_id"`
	Name      string              `json:"name"`
}

// AuthService handles credentials, session tokens and account links for all
// three identity classes.
type AuthService struct {
	cfg         *config.Config
	domains     DomainMap
	students    StudentStore
	admins      AdminStore
	superAdmins SuperAdminStore
	references  ReferenceStore
	otps        OTPStore
	notifier    Notifier
	windows     WindowScheduler
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	domains DomainMap,
	students StudentStore,
	admins AdminStore,
	superAdmins SuperAdminStore,
	references ReferenceStore,
	otps OTPStore,
	notifier Notifier,
	windows WindowScheduler,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		domains:     domains,
		students:    students,
		admins:      admins,
		superAdmins: superAdmins,
		references:  references,
		otps:        otps,
		notifier:    notifier,
		windows:     windows,
		log:         log.With().Str("component", "auth").Logger(),
		now:         time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login authenticates an email/password pair. The email domain decides
// which identity table is consulted.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	class, err := s.domains.ResolveIdentityClass(req.Email)
	if err != nil {
		return nil, err
	}

	switch class {
	case model.ClassStudent:
		return s.loginStudent(ctx, req)
	case model.ClassAdmin:
		return s.loginAdmin(ctx, req)
	case model.ClassSuperAdmin:
		return s.loginSuperAdmin(ctx, req)
	}
	return nil, ErrMalformedRequest
}

func (s *AuthService) loginStudent(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	st, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if err := s.CheckPassword(st.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	if !st.Verified {
		return nil, ErrNotVerified
	}
	if st.Blocked {
		return nil, ErrBlocked
	}

	now := s.now()
	res, _, err := s.mint(model.ClassStudent, st.ID, "", now, studentTokenTTL(now, s.cfg.Location()))
	if err != nil {
		return nil, err
	}
	if err := s.students.SetLive(ctx, st.ID, true); err != nil {
		return nil, storageErr(err)
	}
	res.Name = st.UserName
	return res, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	a, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if err := s.CheckPassword(a.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	res, _, err := s.mint(model.ClassAdmin, a.ID, a.Role, s.now(), s.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	if err := s.admins.SetLive(ctx, a.ID, true); err != nil {
		return nil, storageErr(err)
	}
	res.Name = a.UserName
	return res, nil
}

func (s *AuthService) loginSuperAdmin(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	sa, err := s.superAdmins.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if err := s.CheckPassword(sa.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	if !sa.Confirmed {
		s.sendLink(ctx, sa.Email, PurposeConfirmLogin, sa.Name)
		return nil, ErrNotConfirmed
	}

	res, sessionID, err := s.mint(model.ClassSuperAdmin, sa.ID, model.RoleSuperAdmin, s.now(), s.cfg.SuperAdminWindow)
	if err != nil {
		return nil, err
	}
	if err := s.superAdmins.SetLive(ctx, sa.ID, true); err != nil {
		return nil, storageErr(err)
	}
	if err := s.windows.Open(ctx, sessionID, sa.ID); err != nil {
		return nil, storageErr(err)
	}
	res.Name = sa.Name
	return res, nil
}

// Authorize resolves a session token into the identity behind it. The
// backing row is re-read on every call so password changes, blocks and
// closed super-admin windows take effect immediately.
func (s *AuthService) Authorize(ctx context.Context, tokenStr string) (*Identity, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}
	iat := claims.IssuedAt.Time

	id := &Identity{
		Class:     claims.Class,
		ID:        claims.UserID,
		Type:      typeOf(claims.Class),
		SessionID: claims.ID,
		IssuedAt:  iat,
	}

	switch claims.Class {
	case model.ClassStudent:
		st, err := s.students.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, mapNotFound(err, ErrIdentityGone)
		}
		if isStale(st.PasswordChangedAt, iat) {
			return nil, ErrSessionStale
		}
		if st.Blocked {
			return nil, ErrBlocked
		}
		id.Name, id.Email = st.UserName, st.Email

	case model.ClassAdmin:
		a, err := s.admins.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, mapNotFound(err, ErrIdentityGone)
		}
		if isStale(a.PasswordChangedAt, iat) {
			return nil, ErrSessionStale
		}
		id.Name, id.Email, id.Role = a.UserName, a.Email, a.Role

	case model.ClassSuperAdmin:
		sa, err := s.superAdmins.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, mapNotFound(err, ErrIdentityGone)
		}
		if isStale(sa.PasswordChangedAt, iat) || !sa.Confirmed {
			return nil, ErrSessionStale
		}
		id.Name, id.Email, id.Role = sa.Name, sa.Email, model.RoleSuperAdmin

	default:
		return nil, ErrTokenInvalid
	}

	return id, nil
}

// Logout ends the caller's session. A super admin's window is closed,
// which also requires a fresh email confirmation on the next login.
func (s *AuthService) Logout(ctx context.Context, id *Identity) error {
	var err error
	switch id.Class {
	case model.ClassStudent:
		err = s.students.SetLive(ctx, id.ID, false)
	case model.ClassAdmin:
		err = s.admins.SetLive(ctx, id.ID, false)
	case model.ClassSuperAdmin:
		s.windows.Close(ctx, id.SessionID)
		err = s.superAdmins.CloseWindow(ctx, id.ID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storageErr(err)
	}
	return nil
}

// ChangePassword replaces the caller's password after checking the current
// one. Every token issued before the change becomes stale.
func (s *AuthService) ChangePassword(ctx context.Context, id *Identity, req model.ChangePasswordRequest) error {
	var current string
	switch id.Class {
	case model.ClassStudent:
		st, err := s.students.GetByID(ctx, id.ID)
		if err != nil {
			return mapNotFound(err, ErrIdentityGone)
		}
		current = st.PasswordHash
	case model.ClassAdmin:
		a, err := s.admins.GetByID(ctx, id.ID)
		if err != nil {
			return mapNotFound(err, ErrIdentityGone)
		}
		current = a.PasswordHash
	case model.ClassSuperAdmin:
		sa, err := s.superAdmins.GetByID(ctx, id.ID)
		if err != nil {
			return mapNotFound(err, ErrIdentityGone)
		}
		current = sa.PasswordHash
	default:
		return ErrForbidden
	}

	if err := s.CheckPassword(current, req.CurrentPassword); err != nil {
		return err
	}
	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	switch id.Class {
	case model.ClassStudent:
		err = s.students.UpdatePassword(ctx, id.ID, hash)
	case model.ClassAdmin:
		err = s.admins.UpdatePassword(ctx, id.ID, hash)
	case model.ClassSuperAdmin:
		if err = s.superAdmins.UpdatePassword(ctx, id.ID, hash); err == nil {
			s.windows.CloseAll(ctx, id.ID)
			err = s.superAdmins.CloseWindow(ctx, id.ID)
		}
	}
	return mapNotFound(err, ErrIdentityGone)
}

// ValidateToken parses and validates a session JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenStr, claims, audienceSession); err != nil {
		return nil, err
	}
	if !claims.Class.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) parse(tokenStr string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithAudience(audience), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func (s *AuthService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// mint issues a session token and returns it with its session ID.
func (s *AuthService) mint(class model.IdentityClass, userID int, role model.Role, now time.Time, ttl time.Duration) (*LoginResult, string, error) {
	jti := uuid.New().String()
	exp := now.Add(ttl)

	signed, err := s.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(userID),
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Class:  class,
		UserID: userID,
		Role:   role,
		Type:   typeOf(class),
	})
	if err != nil {
		return nil, "", err
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: exp,
		Class:     class,
		Type:      typeOf(class),
		Role:      role,
		UserID:    userID,
	}, jti, nil
}
