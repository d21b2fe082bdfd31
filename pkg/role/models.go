package role

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// ScopeType is the breadth at which a role applies.
type ScopeType string

const (
	ScopeTypeGlobal      ScopeType = "GLOBAL"
	ScopeTypeBranch      ScopeType = "BRANCH"
	ScopeTypeDistributor ScopeType = "DISTRIBUTOR"
)

// Role is a row of the roles table.
type Role struct {
	ID           uuid.UUID  `db:"id"`
	Name         string     `db:"name"`
	Description  *string    `db:"description"`
	IsAssignable bool       `db:"is_assignable"`
	ScopeType    ScopeType  `db:"scope_type"`
	CreatedAt    time.Time  `db:"created_at"`
	CreatedBy    *uuid.UUID `db:"created_by"`
	UpdatedAt    time.Time  `db:"updated_at"`
	UpdatedBy    *uuid.UUID `db:"updated_by"`
}

// RoleDTO is the wire representation of a role. ID and the timestamps are
// assigned by the server.
type RoleDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name" validate:"required,min=1,max=100"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	IsAssignable *bool      `json:"isAssignable" validate:"required" copier:"-"`
	ScopeType    ScopeType  `json:"scopeType" validate:"required,oneof=GLOBAL BRANCH DISTRIBUTOR"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	UpdatedBy    *uuid.UUID `json:"updatedBy,omitempty"`
}

// FilterSchema lists the role fields accepted by the filter endpoint.
var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":           {Column: "id", Kind: filter.KindUUID},
		"name":         {Column: "name", Kind: filter.KindText},
		"description":  {Column: "description", Kind: filter.KindText},
		"isAssignable": {Column: "is_assignable", Kind: filter.KindBool},
		"scopeType":    {Column: "scope_type", Kind: filter.KindExact},
		"createdAt":    {Column: "created_at", Kind: filter.KindTime},
		"createdBy":    {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":    {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":    {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "name",
	DefaultDirection: filter.Asc,
}
