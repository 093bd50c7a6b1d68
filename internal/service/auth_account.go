package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// Signup registers an unverified student and mails an activation link.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest, files model.SignupFiles) (*model.Student, error) {
	if err := s.domains.RequireClass(req.Email, model.ClassStudent); err != nil {
		return nil, err
	}

	birthDay, err := time.Parse(model.DateLayout, req.BirthDay)
	if err != nil {
		return nil, ErrMalformedRequest
	}

	if err := checkReferences(ctx, s.references,
		refCheck{model.KindFaculty, req.FacultyID},
		refCheck{model.KindLevel, req.LevelID},
		refCheck{model.KindNationality, req.NationalityID},
		refCheck{model.KindGovernorate, req.GovID},
	); err != nil {
		return nil, err
	}

	if err := checkStudentUnique(ctx, s.students, req.Email, req.NationalID, 0); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	st := &model.Student{
		UserName:          req.UserName,
		Email:             strings.ToLower(req.Email),
		PasswordHash:      hash,
		NationalID:        req.NationalID,
		Phone:             req.Phone,
		Gender:            req.Gender,
		BirthDay:          &birthDay,
		LevelID:           req.LevelID,
		GovID:             req.GovID,
		FacultyID:         req.FacultyID,
		NationalityID:     req.NationalityID,
		ImageRef:          files.ImageRef,
		NationalIDFileRef: files.NationalIDFileRef,
		FeesFileRef:       files.FeesFileRef,
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, mapWrite(err, ErrUnknownReference)
	}

	s.sendLink(ctx, st.Email, PurposeActivate, st.UserName)
	return st, nil
}

// Activate consumes an activation link and marks the student verified.
func (s *AuthService) Activate(ctx context.Context, token string) error {
	email, err := s.parseLink(token, PurposeActivate)
	if err != nil {
		return err
	}
	return mapNotFound(s.students.SetVerifiedByEmail(ctx, email), ErrNotFound)
}

// ConfirmSuperAdmin consumes a login confirmation link. The super admin
// can then log in and open a session window.
func (s *AuthService) ConfirmSuperAdmin(ctx context.Context, token string) error {
	email, err := s.parseLink(token, PurposeConfirmLogin)
	if err != nil {
		return err
	}
	return mapNotFound(s.superAdmins.SetConfirmedByEmail(ctx, email), ErrNotFound)
}

// SendOTP mails a six-digit password reset code to a registered student.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	st, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}

	code, err := randomDigits(6)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.SaveOTP(ctx, st.Email, code, s.cfg.OTPTTL); err != nil {
		return storageErr(err)
	}

	s.notify(ctx, model.Mail{
		To:   st.Email,
		Kind: model.MailOTP,
		Data: map[string]string{
			"name":    st.UserName,
			"code":    code,
			"minutes": fmt.Sprint(int(s.cfg.OTPTTL.Minutes())),
		},
	})
	return nil
}

// ResetPasswordWithOTP consumes a reset code and replaces the student's password.
func (s *AuthService) ResetPasswordWithOTP(ctx context.Context, req model.ForgetPasswordRequest) error {
	st, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		return mapNotFound(err, ErrNotFound)
	}

	ok, err := s.otps.ConsumeOTP(ctx, st.Email, req.OTP)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return mapNotFound(s.students.UpdatePassword(ctx, st.ID, hash), ErrNotFound)
}

// linkPath is the public route each link purpose lands on.
var linkPath = map[LinkPurpose]string{
	PurposeConfirmLogin: "/api/v1/auth/confirm-email",
	PurposeActivate:     "/api/v1/auth/activate",
}

var linkMail = map[LinkPurpose]model.MailKind{
	PurposeConfirmLogin: model.MailConfirmLogin,
	PurposeActivate:     model.MailActivate,
}

// sendLink queues an email carrying a signed single-purpose link.
func (s *AuthService) sendLink(ctx context.Context, email string, purpose LinkPurpose, name string) {
	token, err := s.mintLink(email, purpose)
	if err != nil {
		s.log.Error().Err(err).Str("purpose", string(purpose)).Msg("Failed to sign link token")
		return
	}
	s.notify(ctx, model.Mail{
		To:   email,
		Kind: linkMail[purpose],
		Data: map[string]string{
			"name":    name,
			"link":    s.cfg.PublicBaseURL + linkPath[purpose] + "?token=" + url.QueryEscape(token),
			"minutes": fmt.Sprint(int(s.cfg.ConfirmTokenTTL.Minutes())),
		},
	})
}

func (s *AuthService) notify(ctx context.Context, mail model.Mail) {
	if err := s.notifier.Send(ctx, mail); err != nil {
		s.log.Error().Err(err).Str("kind", string(mail.Kind)).Msg("Failed to queue email")
	}
}

func (s *AuthService) mintLink(email string, purpose LinkPurpose) (string, error) {
	now := s.now()
	return s.sign(LinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceLink},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ConfirmTokenTTL)),
		},
		Purpose: purpose,
		Email:   strings.ToLower(email),
	})
}

func (s *AuthService) parseLink(token string, purpose LinkPurpose) (string, error) {
	claims := &LinkClaims{}
	if err := s.parse(token, claims, audienceLink); err != nil {
		return "", err
	}
	if claims.Purpose != purpose || claims.Email == "" {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}

type refCheck struct {
	kind model.ReferenceKind
	id   int
}

// checkReferences fails with ErrUnknownReference at the first id missing from its table.
func checkReferences(ctx context.Context, refs ReferenceStore, checks ...refCheck) error {
	for _, c := range checks {
		ok, err := refs.Exists(ctx, c.kind, c.id)
		if err != nil {
			return storageErr(err)
		}
		if !ok {
			return fmt.Errorf("%w: %s %d", ErrUnknownReference, c.kind.Label, c.id)
		}
	}
	return nil
}

// checkStudentUnique fails with ErrConflict if another student holds the email or national id.
func checkStudentUnique(ctx context.Context, students StudentStore, email, nationalID string, excludeID int) error {
	if email != "" {
		taken, err := students.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return storageErr(err)
		}
		if taken {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		}
	}
	taken, err := students.NationalIDTaken(ctx, nationalID, excludeID)
	if err != nil {
		return storageErr(err)
	}
	if taken {
		return fmt.Errorf("%w: national id already registered", ErrConflict)
	}
	return nil
}

func randomDigits(n int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
