// Package models holds the directory's domain types and input validation.
package models

import (
	"userdir/pkg/email"
	dErrors "userdir/pkg/errors"
)

// Role is the record's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRole applies when a create request omits the role.
const DefaultRole = RoleUser

// MaxNameLength bounds the name attribute.
const MaxNameLength = 100

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a stored directory record. The ID is assigned on creation and
// immutable thereafter.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// CreateUserInput is the payload for Create. Role is optional and defaults to
// DefaultRole.
type CreateUserInput struct {
	Name  string
	Email string
	Role  Role
}

func (in CreateUserInput) Validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if !email.Valid(in.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "email must be a valid address")
	}
	if in.Role != "" && !in.Role.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be user or admin")
	}
	return nil
}

// UpdateUserInput is a partial change set for UpdatePartial. Nil fields are
// left untouched (merge semantics).
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *Role
}

// Empty reports whether the change set carries no fields at all. A no-op
// update is rejected, not silently accepted.
func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Role == nil
}

func (in UpdateUserInput) Validate() error {
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return err
		}
	}
	if in.Email != nil && !email.Valid(*in.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "email must be a valid address")
	}
	if in.Role != nil && !in.Role.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be user or admin")
	}
	return nil
}

// ReplaceUserInput is the full document for UpdateFull. Every field is
// required; omitted fields would be erased by the replace.
type ReplaceUserInput struct {
	Name  string
	Email string
	Role  Role
}

func validateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if len(name) > MaxNameLength {
		return dErrors.New(dErrors.CodeBadRequest, "name is too long")
	}
	return nil
}
