package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// YearlyReset fires at midnight on 1 January.
const YearlyReset = "0 0 1 1 *"

// VerificationResetter clears the verified flag of every student.
type VerificationResetter interface {
	ResetAllVerified(ctx context.Context) (int64, error)
}

// VerificationReset forces every student to re-verify at the start of
// each academic year.
type VerificationReset struct {
	cron     *cron.Cron
	students VerificationResetter
	log      zerolog.Logger
}

// NewVerificationReset creates a job evaluated in loc.
func NewVerificationReset(students VerificationResetter, loc *time.Location, log zerolog.Logger) *VerificationReset {
	l := log.With().Str("component", "verification_reset").Logger()
	return &VerificationReset{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{l})),
		students: students,
		log:      l,
	}
}

// Start registers the yearly schedule and starts the cron loop.
func (v *VerificationReset) Start() error {
	if _, err := v.cron.AddFunc(YearlyReset, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = v.RunOnce(ctx)
	}); err != nil {
		return err
	}
	v.cron.Start()
	v.log.Info().Str("schedule", YearlyReset).Msg("Verification reset scheduled")
	return nil
}

// Stop halts the cron loop and waits for a running job up to ctx's deadline.
func (v *VerificationReset) Stop(ctx context.Context) {
	done := v.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		v.log.Warn().Msg("Verification reset still running at shutdown")
	}
}

// RunOnce performs the reset immediately.
func (v *VerificationReset) RunOnce(ctx context.Context) (int64, error) {
	n, err := v.students.ResetAllVerified(ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("Verification reset failed")
		return 0, err
	}
	v.log.Info().Int64("students", n).Msg("Student verification reset")
	return n, nil
}

// cronLogger routes cron's own logging through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
