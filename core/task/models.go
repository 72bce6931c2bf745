package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
)

// Status is the closed set of task states.
//
//	pending ⇄ in-progress → pending_confirmation → completed
//
// Volunteers cannot reach completed directly; requesting it moves the task to
// pending_confirmation until an admin confirms.
type Status string

const (
	StatusPending             Status = "pending"
	StatusInProgress          Status = "in-progress"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusCompleted           Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPendingConfirmation, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	NGOID       primitive.ObjectID `bson:"ngo_id" json:"ngoId"`
	AssignedTo  primitive.ObjectID `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	Status      Status             `bson:"status" json:"status"`
	DueDate     time.Time          `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

// NewTask contains information needed to create a task.
type NewTask struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	AssignedTo  primitive.ObjectID `json:"assignedTo"`
	DueDate     time.Time          `json:"dueDate"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	return validate.Struct(nt)
}

// UpdateTask defines the full update available to admin/staff.
// Zero fields keep current values.
type UpdateTask struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	AssignedTo  primitive.ObjectID `json:"assignedTo"`
	Status      Status             `json:"status"`
	DueDate     time.Time          `json:"dueDate"`
}

func (ut *UpdateTask) Validate(validate *validator.Validate) error {
	ut.Title = core.CleanString(ut.Title)
	ut.Description = core.CleanString(ut.Description)

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Status != "" && !ut.Status.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
	}
	return nil
}

// UpdateStatus is the volunteer-facing status-only update.
type UpdateStatus struct {
	Status Status `json:"status" validate:"required"`
}

func (us UpdateStatus) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

// Filter narrows task queries. Zero fields are ignored.
type Filter struct {
	NGOID      primitive.ObjectID
	AssignedTo primitive.ObjectID
}
