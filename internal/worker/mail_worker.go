package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	maxMailAttempts = 5
	sendTimeout     = 30 * time.Second
)

// MailWorker consumes notify_email_queue and delivers each email.
type MailWorker struct {
	rdb        *redis.Client
	renderer   *Renderer
	sender     Sender
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewMailWorker creates a new MailWorker.
func NewMailWorker(rdb *redis.Client, renderer *Renderer, sender Sender, log zerolog.Logger) *MailWorker {
	return &MailWorker{
		rdb:        rdb,
		renderer:   renderer,
		sender:     sender,
		retryDelay: 5 * time.Second,
		log:        log.With().Str("component", "mail_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *MailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *MailWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.NotifyEmailQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		// Back off before the next item.
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// handle delivers one raw queue item. A delivery failure requeues the mail
// until it runs out of attempts; malformed items are dropped.
func (w *MailWorker) handle(ctx context.Context, raw string) error {
	var m model.Mail
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping mail")
		return nil
	}

	subject, body, err := w.renderer.Render(m)
	if err != nil {
		metrics.MailFailed(string(m.Kind))
		w.log.Error().Err(err).Str("kind", string(m.Kind)).Msg("Render error, dropping mail")
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, m.To, subject, body); err != nil {
		metrics.MailFailed(string(m.Kind))
		w.retry(ctx, m, err)
		return err
	}

	metrics.MailSent(string(m.Kind))
	w.log.Debug().Str("kind", string(m.Kind)).Str("to", m.To).Msg("Mail sent")
	return nil
}

func (w *MailWorker) retry(ctx context.Context, m model.Mail, cause error) {
	m.Attempts++
	if m.Attempts >= maxMailAttempts {
		w.log.Error().Err(cause).Str("kind", string(m.Kind)).Int("attempts", m.Attempts).Msg("Giving up on mail")
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := w.rdb.RPush(context.WithoutCancel(ctx), config.WorkerKey.NotifyEmailQueue, data).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue error, mail lost")
		return
	}
	w.log.Warn().Err(cause).Str("kind", string(m.Kind)).Int("attempts", m.Attempts).Msg("Send error, requeued")
}

// drain delivers what is left in the queue before shutdown. The first
// failure stops draining; the item stays queued for the next start.
func (w *MailWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.NotifyEmailQueue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, raw); err != nil {
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
