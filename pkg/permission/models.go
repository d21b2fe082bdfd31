package permission

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// Permission is a row of the permissions table.
type Permission struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Domain      string     `db:"domain"`
	CreatedAt   time.Time  `db:"created_at"`
	CreatedBy   *uuid.UUID `db:"created_by"`
	UpdatedAt   time.Time  `db:"updated_at"`
	UpdatedBy   *uuid.UUID `db:"updated_by"`
}

// PermissionDTO is the wire representation of a permission.
type PermissionDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name" validate:"required,min=1,max=100,upper_snake"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Domain      string     `json:"domain" validate:"required,min=1,max=100,lower_snake"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":          {Column: "id", Kind: filter.KindUUID},
		"name":        {Column: "name", Kind: filter.KindText},
		"description": {Column: "description", Kind: filter.KindText},
		"domain":      {Column: "domain", Kind: filter.KindExact},
		"createdAt":   {Column: "created_at", Kind: filter.KindTime},
		"createdBy":   {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":   {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":   {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "name",
	DefaultDirection: filter.Asc,
}
