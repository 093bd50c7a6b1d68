package model

import (
	"encoding/json"
	"time"
)

// AuditAction labels a privileged mutation in the admin log.
type AuditAction string

const (
	AuditAcceptExam        AuditAction = "accept_exam"
	AuditDeclineExam       AuditAction = "decline_exam"
	AuditTransfer          AuditAction = "transfer_exam"
	AuditUpdateTransfer    AuditAction = "update_transfer"
	AuditAddAdmin          AuditAction = "add_admin"
	AuditUpdateAdmin       AuditAction = "update_admin"
	AuditDeleteAdmin       AuditAction = "delete_admin"
	AuditResetPassword     AuditAction = "reset_admin_password"
	AuditAddSuperAdmin     AuditAction = "add_super_admin"
	AuditAddStudent        AuditAction = "add_student"
	AuditUpdateStudent     AuditAction = "update_student"
	AuditDeleteStudent     AuditAction = "delete_student"
	AuditBlockStudent      AuditAction = "block_student"
	AuditUnblockStudent    AuditAction = "unblock_student"
	AuditSendObservation   AuditAction = "send_observation"
	AuditAddEmergency      AuditAction = "add_emergency_reservation"
	AuditUpdateEmergency   AuditAction = "update_emergency_reservation"
	AuditDeleteEmergency   AuditAction = "delete_emergency_reservation"
	AuditAddReference      AuditAction = "add_reference"
	AuditUpdateReference   AuditAction = "update_reference"
	AuditDeleteReference   AuditAction = "delete_reference"
	AuditClearActorHistory AuditAction = "clear_actor_history"
	AuditClearAllHistory   AuditAction = "clear_all_history"
)

// AdminLog is one append-only audit entry.
type AdminLog struct {
	ID         int64           `json:"id"`
	ActorClass IdentityClass   `json:"actor_class"`
	ActorID    int             `json:"actor_id"`
	ActorName  string          `json:"actor_name"`
	Action     AuditAction     `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
}

// AuditFilter selects log rows. The zero value selects every actor.
type AuditFilter struct {
	ActorClass IdentityClass
	ActorID    int
}

// All reports whether the filter selects every row.
func (f AuditFilter) All() bool {
	return f.ActorID == 0
}
