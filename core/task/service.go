package task

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

var (
	ErrNotFound = errors.WithMessage(core.ErrNotFound, "task not found")

	ErrNotAwaitingConfirmation = errors.New("task is not awaiting confirmation")
	ErrInvalidVolunteerStatus  = errors.New(
		"volunteers can only update status to 'pending', 'in-progress' or 'completed' (which sets pending_confirmation)")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		GetTaskByID(ctx context.Context, id primitive.ObjectID) (Task, error)
		// FilterTasks applies AND operation on available Filter fields.
		FilterTasks(ctx context.Context, filter Filter) ([]Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		DeleteTaskByID(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create records a new task in the actor's NGO, starting out pending.
func (svc *Service) Create(ctx context.Context, actor user.User, nt NewTask) (Task, error) {
	if !actor.HasNGO() {
		return Task{}, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}

	now := time.Now().UTC()
	t := Task{
		Title:       nt.Title,
		Description: nt.Description,
		NGOID:       actor.NGOID,
		AssignedTo:  nt.AssignedTo,
		Status:      StatusPending,
		DueDate:     nt.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateTask(ctx, t)
}

// Query lists the actor's NGO tasks. Volunteers only see tasks assigned to
// them; admin and staff see the whole tenant.
func (svc *Service) Query(ctx context.Context, actor user.User) ([]Task, error) {
	if !actor.HasNGO() {
		return nil, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}

	filter := Filter{NGOID: actor.NGOID}
	if actor.IsVolunteer() {
		filter.AssignedTo = actor.ID
	}
	return svc.repo.FilterTasks(ctx, filter)
}

// get fetches by id first (not found if absent), then enforces tenant
// ownership: a task outside the actor's NGO is a denial, never a 404.
func (svc *Service) get(ctx context.Context, actor user.User, id primitive.ObjectID) (Task, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.NGOID != actor.NGOID {
		return Task{}, errors.WithMessage(core.ErrPermissionDenied, "task does not belong to your NGO")
	}
	return t, nil
}

func (svc *Service) GetByID(ctx context.Context, actor user.User, id primitive.ObjectID) (Task, error) {
	return svc.get(ctx, actor, id)
}

// Update applies the full admin/staff update; blank fields keep current values.
func (svc *Service) Update(ctx context.Context, actor user.User, id primitive.ObjectID, ut UpdateTask) (Task, error) {
	t, err := svc.get(ctx, actor, id)
	if err != nil {
		return Task{}, err
	}

	if ut.Title != "" {
		t.Title = ut.Title
	}
	if ut.Description != "" {
		t.Description = ut.Description
	}
	if !ut.AssignedTo.IsZero() {
		t.AssignedTo = ut.AssignedTo
	}
	if ut.Status != "" {
		t.Status = ut.Status
	}
	if !ut.DueDate.IsZero() {
		t.DueDate = ut.DueDate
	}
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, t)
}

// UpdateStatus handles the status-only transition.
//
// Volunteers may move a task between pending and in-progress; requesting
// completed is rewritten to pending_confirmation (volunteers cannot
// self-complete), and anything else is rejected. Admin and staff may set any
// valid status directly.
func (svc *Service) UpdateStatus(ctx context.Context, actor user.User, id primitive.ObjectID, status Status) (Task, error) {
	t, err := svc.get(ctx, actor, id)
	if err != nil {
		return Task{}, err
	}

	if actor.IsVolunteer() {
		switch status {
		case StatusCompleted:
			t.Status = StatusPendingConfirmation
			svc.logger.Info(fmt.Sprintf(
				"volunteer %s marked task %s as completed; awaiting admin confirmation", actor.Email, t.ID.Hex()))
		case StatusPending, StatusInProgress:
			t.Status = status
		default:
			return Task{}, core.NewValidationError(ErrInvalidVolunteerStatus,
				core.FieldError{Field: "status", Error: ErrInvalidVolunteerStatus.Error()})
		}
	} else {
		if !status.Valid() {
			return Task{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
		}
		t.Status = status
	}

	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, t)
}

// Confirm finalizes a volunteer-completed task. It is only valid while the
// task awaits confirmation.
func (svc *Service) Confirm(ctx context.Context, actor user.User, id primitive.ObjectID) (Task, error) {
	t, err := svc.get(ctx, actor, id)
	if err != nil {
		return Task{}, err
	}
	if t.Status != StatusPendingConfirmation {
		return Task{}, core.NewValidationError(ErrNotAwaitingConfirmation)
	}

	t.Status = StatusCompleted
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, t)
}

// Delete removes a task of the actor's NGO.
func (svc *Service) Delete(ctx context.Context, actor user.User, id primitive.ObjectID) error {
	t, err := svc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteTaskByID(ctx, t.ID)
}
