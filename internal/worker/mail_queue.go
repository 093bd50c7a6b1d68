package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// MailQueue pushes outgoing emails onto the notification queue.
type MailQueue struct {
	rdb *redis.Client
}

// NewMailQueue creates a new MailQueue.
func NewMailQueue(rdb *redis.Client) *MailQueue {
	return &MailQueue{rdb: rdb}
}

// Send enqueues mail for the MailWorker.
func (q *MailQueue) Send(ctx context.Context, mail model.Mail) error {
	data, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.NotifyEmailQueue, data).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	metrics.MailQueued(string(mail.Kind))
	return nil
}
