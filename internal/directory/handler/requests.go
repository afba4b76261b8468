package handler

import (
	"userdir/internal/directory/models"
	dErrors "userdir/pkg/errors"
)

// CreateUserRequest is the POST /users payload. Role is optional.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

func (r CreateUserRequest) Input() models.CreateUserInput {
	return models.CreateUserInput{
		Name:  r.Name,
		Email: r.Email,
		Role:  models.Role(r.Role),
	}
}

// UpdateUserRequest is the PATCH /users/{id} payload. Absent fields stay
// untouched; the service rejects a payload with no fields at all.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (r UpdateUserRequest) Input() models.UpdateUserInput {
	input := models.UpdateUserInput{
		Name:  r.Name,
		Email: r.Email,
	}
	if r.Role != nil {
		role := models.Role(*r.Role)
		input.Role = &role
	}
	return input
}

// ReplaceUserRequest is the PUT /users/{id} payload. All fields are required;
// the replace erases whatever is not supplied.
type ReplaceUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r ReplaceUserRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Role == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name, email and role are required")
	}
	if !models.Role(r.Role).Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be user or admin")
	}
	return nil
}

func (r ReplaceUserRequest) Input() models.ReplaceUserInput {
	return models.ReplaceUserInput{
		Name:  r.Name,
		Email: r.Email,
		Role:  models.Role(r.Role),
	}
}

type deleteResponse struct {
	Success bool `json:"success"`
}
