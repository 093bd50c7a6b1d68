package worker

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var mailKinds = []model.MailKind{
	model.MailConfirmLogin,
	model.MailActivate,
	model.MailOTP,
	model.MailObservation,
}

// Renderer turns a queued Mail into a subject and HTML body.
type Renderer struct {
	sets map[model.MailKind]*template.Template
}

// NewRenderer parses one template set per mail kind.
func NewRenderer() (*Renderer, error) {
	sets := make(map[model.MailKind]*template.Template, len(mailKinds))
	for _, kind := range mailKinds {
		t, err := template.New(string(kind)).
			Option("missingkey=error").
			ParseFS(templateFS, "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		sets[kind] = t
	}
	return &Renderer{sets: sets}, nil
}

// Render executes the templates for m.Kind.
func (r *Renderer) Render(m model.Mail) (subject, body string, err error) {
	t, ok := r.sets[m.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown mail kind %q", m.Kind)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "subject", m.Data); err != nil {
		return "", "", err
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := t.ExecuteTemplate(&buf, "body", m.Data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
