package useraccount

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type UserType string

const (
	UserTypeEmployee    UserType = "EMPLOYEE"
	UserTypeDistributor UserType = "DISTRIBUTOR"
)

type ThemePreference string

const (
	ThemeLight  ThemePreference = "LIGHT"
	ThemeDark   ThemePreference = "DARK"
	ThemeSystem ThemePreference = "SYSTEM"
)

// UserAccount is a row of the user_accounts table.
type UserAccount struct {
	ID                 uuid.UUID        `db:"id"`
	FullName           string           `db:"full_name"`
	Nickname           *string          `db:"nickname"`
	Email              string           `db:"email"`
	UserType           UserType         `db:"user_type"`
	BranchID           *uuid.UUID       `db:"branch_id"`
	DistributorID      *uuid.UUID       `db:"distributor_id"`
	DepartmentID       *uuid.UUID       `db:"department_id"`
	PositionID         *uuid.UUID       `db:"position_id"`
	JobTitle           *string          `db:"job_title"`
	AvatarURL          *string          `db:"avatar_url"`
	ThemePreference    *ThemePreference `db:"theme_preference"`
	LanguagePreference *string          `db:"language_preference"`
	Locale             *string          `db:"locale"`
	Timezone           *string          `db:"timezone"`
	ContactPhone       *string          `db:"contact_phone"`
	IsActive           bool             `db:"is_active"`
	CreatedAt          time.Time        `db:"created_at"`
	CreatedBy          *uuid.UUID       `db:"created_by"`
	UpdatedAt          time.Time        `db:"updated_at"`
	UpdatedBy          *uuid.UUID       `db:"updated_by"`
}

// UserAccountDTO is the wire representation of a user account.
type UserAccountDTO struct {
	ID                 uuid.UUID        `json:"id"`
	FullName           string           `json:"fullName" validate:"required,min=1,max=255"`
	Nickname           *string          `json:"nickname,omitempty" validate:"omitempty,max=100"`
	Email              string           `json:"email" validate:"required,email,max=255"`
	UserType           UserType         `json:"userType" validate:"required,oneof=EMPLOYEE DISTRIBUTOR"`
	BranchID           *uuid.UUID       `json:"branchId,omitempty"`
	DistributorID      *uuid.UUID       `json:"distributorId,omitempty"`
	DepartmentID       *uuid.UUID       `json:"departmentId,omitempty"`
	PositionID         *uuid.UUID       `json:"positionId,omitempty"`
	JobTitle           *string          `json:"jobTitle,omitempty" validate:"omitempty,max=255"`
	AvatarURL          *string          `json:"avatarUrl,omitempty" validate:"omitempty,max=500,avatar_url"`
	ThemePreference    *ThemePreference `json:"themePreference,omitempty" validate:"omitempty,oneof=LIGHT DARK SYSTEM"`
	LanguagePreference *string          `json:"languagePreference,omitempty" validate:"omitempty,language"`
	Locale             *string          `json:"locale,omitempty" validate:"omitempty,locale"`
	Timezone           *string          `json:"timezone,omitempty" validate:"omitempty,max=50"`
	ContactPhone       *string          `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	IsActive           *bool            `json:"isActive" validate:"required" copier:"-"`
	CreatedAt          time.Time        `json:"createdAt"`
	CreatedBy          *uuid.UUID       `json:"createdBy,omitempty"`
	UpdatedAt          time.Time        `json:"updatedAt"`
	UpdatedBy          *uuid.UUID       `json:"updatedBy,omitempty"`
}

var FilterSchema = filter.Schema{
	Fields: map[string]filter.Field{
		"id":                 {Column: "id", Kind: filter.KindUUID},
		"fullName":           {Column: "full_name", Kind: filter.KindText},
		"nickname":           {Column: "nickname", Kind: filter.KindText},
		"email":              {Column: "email", Kind: filter.KindText},
		"userType":           {Column: "user_type", Kind: filter.KindExact},
		"branchId":           {Column: "branch_id", Kind: filter.KindUUID},
		"distributorId":      {Column: "distributor_id", Kind: filter.KindUUID},
		"departmentId":       {Column: "department_id", Kind: filter.KindUUID},
		"positionId":         {Column: "position_id", Kind: filter.KindUUID},
		"jobTitle":           {Column: "job_title", Kind: filter.KindText},
		"themePreference":    {Column: "theme_preference", Kind: filter.KindExact},
		"languagePreference": {Column: "language_preference", Kind: filter.KindExact},
		"locale":             {Column: "locale", Kind: filter.KindExact},
		"timezone":           {Column: "timezone", Kind: filter.KindExact},
		"contactPhone":       {Column: "contact_phone", Kind: filter.KindText},
		"isActive":           {Column: "is_active", Kind: filter.KindBool},
		"createdAt":          {Column: "created_at", Kind: filter.KindTime},
		"createdBy":          {Column: "created_by", Kind: filter.KindUUID},
		"updatedAt":          {Column: "updated_at", Kind: filter.KindTime},
		"updatedBy":          {Column: "updated_by", Kind: filter.KindUUID},
	},
	DefaultSort:      "fullName",
	DefaultDirection: filter.Asc,
}
