package rolepermission

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// RolePermission is a row of the role_permissions table.
type RolePermission struct {
	ID           uuid.UUID  `db:"id"`
	RoleID       uuid.UUID  `db:"role_id"`
	PermissionID uuid.UUID  `db:"permission_id"`
	CreatedAt    time.Time  `db:"created_at"`
	CreatedBy    *uuid.UUID `db:"created_by"`
	UpdatedAt    time.Time  `db:"updated_at"`
	UpdatedBy    *uuid.UUID `db:"updated_by"`
}

type RolePermissionDTO struct {
	ID           uuid.UUID  `json:"id"`
	RoleID       uuid.UUID  `json:"roleId" validate:"required"`
	PermissionID uuid.UUID  `json:"permissionId" validate:"required"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	UpdatedBy    *uuid.UUID `json:"updatedBy,omitempty"`
}

// AssignPermissionRequest is the body of POST /roles/{roleId}/permissions.
type AssignPermissionRequest struct {
	PermissionID uuid.UUID `json:"permissionId" validate:"required"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":           {Column: "id", Kind: filter.KindUUID},
		"roleId":       {Column: "role_id", Kind: filter.KindUUID},
		"permissionId": {Column: "permission_id", Kind: filter.KindUUID},
		"createdAt":    {Column: "created_at", Kind: filter.KindTime},
		"createdBy":    {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":    {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":    {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "createdAt",
	DefaultDirection: filter.Asc,
}
