package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/rs/zerolog"
)

// AuditService appends, lists and clears admin_log entries and announces
// committed entries on the audit channel.
type AuditService struct {
	store     AuditStore
	publisher AuditPublisher
	log       zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(store AuditStore, publisher AuditPublisher, log zerolog.Logger) *AuditService {
	return &AuditService{
		store:     store,
		publisher: publisher,
		log:       log.With().Str("component", "audit").Logger(),
	}
}

// Append writes one entry. Called inside a transaction, its failure rolls
// the surrounding operation back.
func (s *AuditService) Append(ctx context.Context, actor Actor, action model.AuditAction, payload any) (*model.AdminLog, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode audit payload: %w", err)
	}

	entry := &model.AdminLog{
		ActorClass: actor.Class,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		Payload:    raw,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, storageErr(err)
	}
	return entry, nil
}

// Announce publishes a committed entry to live subscribers.
func (s *AuditService) Announce(ctx context.Context, entry *model.AdminLog) {
	if entry == nil {
		return
	}
	if err := s.publisher.PublishAudit(ctx, entry); err != nil {
		s.log.Warn().Err(err).Int64("audit_id", entry.ID).Msg("Failed to publish audit entry")
	}
}

// Record appends an entry after a mutation has already committed. A
// failure is logged and counted but never undoes the mutation.
func (s *AuditService) Record(ctx context.Context, actor Actor, action model.AuditAction, payload any) {
	entry, err := s.Append(ctx, actor, action, payload)
	if err != nil {
		metrics.AuditAppendFailures.Inc()
		s.log.Error().Err(err).
			Str("action", string(action)).
			Str("actor_class", string(actor.Class)).
			Int("actor_id", actor.ID).
			Msg("Failed to append audit entry")
		return
	}
	s.Announce(ctx, entry)
}

// List returns a page of entries, newest first.
func (s *AuditService) List(ctx context.Context, filter model.AuditFilter, page, perPage int) ([]model.AdminLog, *response.Pagination, error) {
	page, perPage, offset := response.NormalizePage(page, perPage)
	entries, total, err := s.store.ListPaginated(ctx, filter, perPage, offset)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	return entries, response.NewPagination(page, perPage, total), nil
}

// Clear deletes the entries selected by filter. Clearing one actor's
// history when it has none fails with ErrNotFound.
func (s *AuditService) Clear(ctx context.Context, actor Actor, filter model.AuditFilter) (int64, error) {
	n, err := s.store.Delete(ctx, filter)
	if err != nil {
		return 0, storageErr(err)
	}
	if !filter.All() && n == 0 {
		return 0, ErrNotFound
	}

	if filter.All() {
		s.Record(ctx, actor, model.AuditClearAllHistory, map[string]any{"deleted": n})
		return n, nil
	}
	s.Record(ctx, actor, model.AuditClearActorHistory, map[string]any{
		"actor_class": filter.ActorClass,
		"actor_id":    filter.ActorID,
		"deleted":     n,
	})
	return n, nil
}
