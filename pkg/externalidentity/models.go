package externalidentity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// ExternalIdentity is a row of the user_external_identities table.
type ExternalIdentity struct {
	ID            uuid.UUID  `db:"id"`
	UserAccountID uuid.UUID  `db:"user_account_id"`
	Provider      string     `db:"provider"`
	SubjectID     string     `db:"subject_id"`
	Email         *string    `db:"email"`
	IsPrimary     bool       `db:"is_primary"`
	LinkedAt      time.Time  `db:"linked_at"`
	CreatedAt     time.Time  `db:"created_at"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	UpdatedAt     time.Time  `db:"updated_at"`
	UpdatedBy     *uuid.UUID `db:"updated_by"`
}

// ExternalIdentityDTO is the wire representation of an external identity.
// LinkedAt defaults to the creation time when omitted.
type ExternalIdentityDTO struct {
	ID            uuid.UUID  `json:"id"`
	UserAccountID uuid.UUID  `json:"userAccountId" validate:"required"`
	Provider      string     `json:"provider" validate:"required,min=1,max=100"`
	SubjectID     string     `json:"subjectId" validate:"required,min=1,max=255"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	IsPrimary     *bool      `json:"isPrimary" validate:"required" copier:"-"`
	LinkedAt      *time.Time `json:"linkedAt,omitempty" copier:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	UpdatedBy     *uuid.UUID `json:"updatedBy,omitempty"`
}

// LinkIdentityRequest is the body of POST /users/{userId}/external-identities.
type LinkIdentityRequest struct {
	Provider  string     `json:"provider" validate:"required,min=1,max=100"`
	SubjectID string     `json:"subjectId" validate:"required,min=1,max=255"`
	Email     *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	IsPrimary bool       `json:"isPrimary"`
	LinkedAt  *time.Time `json:"linkedAt,omitempty"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":            {Column: "id", Kind: filter.KindUUID},
		"userAccountId": {Column: "user_account_id", Kind: filter.KindUUID},
		"provider":      {Column: "provider", Kind: filter.KindExact},
		"subjectId":     {Column: "subject_id", Kind: filter.KindExact},
		"email":         {Column: "email", Kind: filter.KindText},
		"isPrimary":     {Column: "is_primary", Kind: filter.KindBool},
		"linkedAt":      {Column: "linked_at", Kind: filter.KindTime},
		"createdAt":     {Column: "created_at", Kind: filter.KindTime},
		"createdBy":     {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":     {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":     {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "linkedAt",
	DefaultDirection: filter.Asc,
}
