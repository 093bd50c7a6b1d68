package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"github.com/hsh-clinic/clinic-backend/internal/validator"
)

// Signup form file fields.
const (
	fieldImage      = "image_file"
	fieldNationalID = "national_id_file"
	fieldFees       = "fees_file"
)

// AuthHandler handles login, registration and account recovery.
type AuthHandler struct {
	authService *service.AuthService
	media       Uploader
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, media Uploader) *AuthHandler {
	return &AuthHandler{authService: authService, media: media}
}

// Login godoc
// POST /api/v1/auth/login
// The email domain decides whether a student, admin or super admin logs in.
// Super admins first receive a confirmation email and get 401 NOT_CONFIRMED.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Signup godoc
// POST /api/v1/auth/signup
// Registers a student from a multipart form. The account stays unverified
// until the emailed activation link is followed.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var files model.SignupFiles
	stored := make([]string, 0, 3)
	cleanup := func() {
		for _, ref := range stored {
			h.media.Remove(ref)
		}
	}

	for _, f := range []struct {
		field string
		kind  service.UploadKind
		dst   *string
	}{
		{fieldImage, service.UploadImage, &files.ImageRef},
		{fieldNationalID, service.UploadDocument, &files.NationalIDFileRef},
		{fieldFees, service.UploadDocument, &files.FeesFileRef},
	} {
		ref, err := upload(c, h.media, f.field, f.kind)
		if err != nil {
			cleanup()
			failWithError(c, err)
			return
		}
		if ref != "" {
			*f.dst = ref
			stored = append(stored, ref)
		}
	}

	student, err := h.authService.Signup(c.Request.Context(), req, files)
	if err != nil {
		cleanup()
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Activate godoc
// GET /api/v1/auth/activate?token=
func (h *AuthHandler) Activate(c *gin.Context) {
	if err := h.authService.Activate(c.Request.Context(), c.Query("token")); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activated": true})
}

// ConfirmEmail godoc
// GET /api/v1/auth/confirm-email?token=
// Confirms a pending super-admin login. The super admin then logs in again.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	if err := h.authService.ConfirmSuperAdmin(c.Request.Context(), c.Query("token")); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"confirmed": true})
}

// SendOTP godoc
// POST /api/v1/auth/otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req model.SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.SendOTP(c.Request.Context(), req.Email); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

// ForgetPassword godoc
// POST /api/v1/auth/forget-password
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req model.ForgetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ResetPasswordWithOTP(c.Request.Context(), req); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), id); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ChangePassword godoc
// POST /api/v1/profile/:student_id/password
// PATCH /api/v1/admin/super-admins/password
// Changes the caller's own password. Existing tokens become stale.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req model.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), id, req); err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}
