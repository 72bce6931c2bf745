package invite

import (
	"github.com/go-playground/validator/v10"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

// NewInvitation contains information needed to invite a member into an NGO.
type NewInvitation struct {
	Email string    `json:"email" validate:"required,email"`
	Role  user.Role `json:"role" validate:"required"`
}

func (ni *NewInvitation) Validate(validate *validator.Validate) error {
	ni.Email = core.CleanString(ni.Email, true /* lower */)

	if err := validate.Struct(ni); err != nil {
		return err
	}
	if !ni.Role.IsMember() {
		return core.NewValidationError(nil,
			core.FieldError{Field: "role", Error: "invalid role for an invitation; allowed roles: staff, volunteer"})
	}
	return nil
}

// Acceptance carries the invitee's details when redeeming an invitation.
type Acceptance struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (a *Acceptance) Validate(validate *validator.Validate) error {
	a.Name = core.CleanString(a.Name)
	return validate.Struct(a)
}
