package repository

import (
	"context"

	"github.com/hsh-clinic/clinic-backend/internal/model"
)

// AuditRepository handles admin_log data access. Rows are only ever
// inserted or bulk-deleted.
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func auditWhere(f model.AuditFilter) whereBuilder {
	var wb whereBuilder
	if !f.All() {
		wb.add("actor_class = ?", f.ActorClass)
		wb.add("actor_id = ?", f.ActorID)
	}
	return wb
}

// Insert appends an entry and fills in ID and timestamp.
func (r *AuditRepository) Insert(ctx context.Context, e *model.AdminLog) error {
	payload := e.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO admin_log (actor_class, actor_id, actor_name, action, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.ActorClass, e.ActorID, e.ActorName, e.Action, string(payload),
	).Scan(&e.ID, &e.Timestamp)
	return translate(err)
}

// ListPaginated returns entries, newest first.
func (r *AuditRepository) ListPaginated(ctx context.Context, f model.AuditFilter, limit, offset int) ([]model.AdminLog, int, error) {
	wb := auditWhere(f)
	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admin_log`+wb.clause(), wb.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	suffix, args := wb.page(limit, offset)
	rows, err := q.Query(ctx,
		`SELECT id, actor_class, actor_id, actor_name, action, payload, created_at
		 FROM admin_log`+wb.clause()+` ORDER BY id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	list := []model.AdminLog{}
	for rows.Next() {
		var e model.AdminLog
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ActorClass, &e.ActorID, &e.ActorName, &e.Action, &payload, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		e.Payload = payload
		list = append(list, e)
	}
	return list, total, rows.Err()
}

// Delete removes the entries selected by the filter and returns how many went.
func (r *AuditRepository) Delete(ctx context.Context, f model.AuditFilter) (int64, error) {
	wb := auditWhere(f)
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM admin_log`+wb.clause(), wb.args...)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
