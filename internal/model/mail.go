package model

// MailKind selects the template a queued email is rendered with.
type MailKind string

const (
	MailConfirmLogin MailKind = "confirm_login"
	MailActivate     MailKind = "activate_account"
	MailOTP          MailKind = "password_otp"
	MailObservation  MailKind = "observation"
)

// Mail is one queued notification.
type Mail struct {
	To       string            `json:"to"`
	Kind     MailKind          `json:"kind"`
	Data     map[string]string `json:"data"`
	Attempts int               `json:"attempts,omitempty"`
}
