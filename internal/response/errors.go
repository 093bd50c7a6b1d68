package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrNotConfirmed       ErrCode = "NOT_CONFIRMED"
	ErrSessionStale       ErrCode = "SESSION_STALE"
	ErrIdentityGone       ErrCode = "IDENTITY_GONE"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden   ErrCode = "FORBIDDEN"
	ErrBlocked     ErrCode = "ACCOUNT_BLOCKED"
	ErrNotVerified ErrCode = "ACCOUNT_NOT_VERIFIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrUnknownReference ErrCode = "UNKNOWN_REFERENCE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrUnknownStudent   ErrCode = "UNKNOWN_STUDENT"
	ErrUnknownClinic    ErrCode = "UNKNOWN_CLINIC"
	ErrUnknownHospital  ErrCode = "UNKNOWN_HOSPITAL"

	// ─── Reservations ──────────────────────────────────────────────────
	ErrLimitReached       ErrCode = "DAILY_CAPACITY_REACHED"
	ErrDailyLimitExceeded ErrCode = "ONE_RESERVATION_PER_DAY"
	ErrAlreadyAccepted    ErrCode = "ALREADY_ACCEPTED"
	ErrNotAccepted        ErrCode = "NOT_ACCEPTED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrNotConfirmed:
		return "Check your inbox to confirm this login."
	case ErrSessionStale:
		return "Your session has ended. Please log in again."
	case ErrIdentityGone:
		return "This account no longer exists."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrBlocked:
		return "This account is blocked."
	case ErrNotVerified:
		return "This account has not been verified yet."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrUnknownReference:
		return "A referenced faculty, level, governorate or nationality does not exist."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record is still used by other data and cannot be deleted."
	case ErrUnknownStudent:
		return "Student not found."
	case ErrUnknownClinic:
		return "Clinic not found."
	case ErrUnknownHospital:
		return "External hospital not found."

	// ─── Reservations ──────────────────────────────────────────────────
	case ErrLimitReached:
		return "No more reservations are available for this day."
	case ErrDailyLimitExceeded:
		return "You already have a reservation on this day."
	case ErrAlreadyAccepted:
		return "This reservation has already been accepted."
	case ErrNotAccepted:
		return "Only accepted reservations can be transferred."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
