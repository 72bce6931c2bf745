package event

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID       primitive.ObjectID `bson:"ngo_id" json:"ngoId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location" json:"location"`
	EventDate   time.Time          `bson:"event_date" json:"eventDate"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

// NewEvent contains information needed to create an event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location" validate:"required"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	return validate.Struct(ne)
}

// UpdateEvent defines the admin/staff update; zero fields keep current values.
type UpdateEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	EventDate   time.Time `json:"eventDate"`
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	ue.Description = core.CleanString(ue.Description)
	ue.Location = core.CleanString(ue.Location)
	return validate.Struct(ue)
}
