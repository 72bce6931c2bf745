package ngo

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	// Rejection is not a stored status: a rejected NGO is deleted outright.
)

type NGO struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Address      string             `bson:"address" json:"address"`
	ContactEmail string             `bson:"contact_email" json:"contactEmail"`
	AdminName    string             `bson:"admin_name" json:"adminName"`
	AdminEmail   string             `bson:"admin_email" json:"adminEmail"`
	Status       Status             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

// RegistrationRequest is the public NGO onboarding submission.
type RegistrationRequest struct {
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	AdminName    string `json:"adminName" validate:"required"`
	AdminEmail   string `json:"adminEmail" validate:"required,email"`
}

func (rr *RegistrationRequest) Validate(validate *validator.Validate) error {
	rr.Name = core.CleanString(rr.Name)
	rr.Address = core.CleanString(rr.Address)
	rr.ContactEmail = core.CleanString(rr.ContactEmail, true /* lower */)
	rr.AdminName = core.CleanString(rr.AdminName)
	rr.AdminEmail = core.CleanString(rr.AdminEmail, true /* lower */)
	return validate.Struct(rr)
}

// RejectRequest carries the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}
