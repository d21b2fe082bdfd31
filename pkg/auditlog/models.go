package auditlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// AuditLog is a row of the audit_logs table.
type AuditLog struct {
	ID            uuid.UUID       `db:"id"`
	UserAccountID uuid.UUID       `db:"user_account_id"`
	Action        string          `db:"action"`
	Resource      string          `db:"resource"`
	ResourceID    string          `db:"resource_id"`
	Metadata      json.RawMessage `db:"metadata"`
	IPAddress     *string         `db:"ip_address"`
	Timestamp     time.Time       `db:"timestamp"`
}

type AuditLogDTO struct {
	ID            uuid.UUID       `json:"id"`
	UserAccountID uuid.UUID       `json:"userAccountId" validate:"required"`
	Action        string          `json:"action" validate:"required,min=1,max=100"`
	Resource      string          `json:"resource" validate:"required,min=1,max=100"`
	ResourceID    string          `json:"resourceId" validate:"required,min=1,max=255"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	IPAddress     *string         `json:"ipAddress,omitempty" validate:"omitempty,ip,max=45"`
	Timestamp     time.Time       `json:"timestamp" validate:"required"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":            {Column: "id", Kind: filter.KindUUID},
		"userAccountId": {Column: "user_account_id", Kind: filter.KindUUID},
		"action":        {Column: "action", Kind: filter.KindExact},
		"resource":      {Column: "resource", Kind: filter.KindExact},
		"resourceId":    {Column: "resource_id", Kind: filter.KindExact},
		"ipAddress":     {Column: "ip_address", Kind: filter.KindExact},
		"timestamp":     {Column: `"timestamp"`, Kind: filter.KindTime},
	},
	DefaultSort:      "timestamp",
	DefaultDirection: filter.Desc,
}
