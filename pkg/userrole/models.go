package userrole

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// UserRole is a row of the user_roles table.
type UserRole struct {
	ID            uuid.UUID  `db:"id"`
	UserAccountID uuid.UUID  `db:"user_account_id"`
	RoleID        uuid.UUID  `db:"role_id"`
	BranchID      *uuid.UUID `db:"branch_id"`
	DistributorID *uuid.UUID `db:"distributor_id"`
	AssignedAt    time.Time  `db:"assigned_at"`
	AssignedBy    uuid.UUID  `db:"assigned_by"`
	CreatedAt     time.Time  `db:"created_at"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	UpdatedAt     time.Time  `db:"updated_at"`
	UpdatedBy     *uuid.UUID `db:"updated_by"`
}

type UserRoleDTO struct {
	ID            uuid.UUID  `json:"id"`
	UserAccountID uuid.UUID  `json:"userAccountId" validate:"required"`
	RoleID        uuid.UUID  `json:"roleId" validate:"required"`
	BranchID      *uuid.UUID `json:"branchId,omitempty"`
	DistributorID *uuid.UUID `json:"distributorId,omitempty"`
	AssignedAt    time.Time  `json:"assignedAt" validate:"required"`
	AssignedBy    uuid.UUID  `json:"assignedBy" validate:"required"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	UpdatedBy     *uuid.UUID `json:"updatedBy,omitempty"`
}

// AssignRoleRequest is the body of POST /users/{userId}/roles. AssignedAt
// defaults to the current time and AssignedBy to the authenticated caller.
type AssignRoleRequest struct {
	RoleID        uuid.UUID  `json:"roleId" validate:"required"`
	BranchID      *uuid.UUID `json:"branchId,omitempty"`
	DistributorID *uuid.UUID `json:"distributorId,omitempty"`
	AssignedAt    *time.Time `json:"assignedAt,omitempty"`
	AssignedBy    *uuid.UUID `json:"assignedBy,omitempty"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":            {Column: "id", Kind: filter.KindUUID},
		"userAccountId": {Column: "user_account_id", Kind: filter.KindUUID},
		"roleId":        {Column: "role_id", Kind: filter.KindUUID},
		"branchId":      {Column: "branch_id", Kind: filter.KindUUID},
		"distributorId": {Column: "distributor_id", Kind: filter.KindUUID},
		"assignedAt":    {Column: "assigned_at", Kind: filter.KindTime},
		"assignedBy":    {Column: "assigned_by", Kind: filter.KindUUID},
		"createdAt":     {Column: "created_at", Kind: filter.KindTime},
		"createdBy":     {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":     {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":     {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "assignedAt",
	DefaultDirection: filter.Desc,
}
