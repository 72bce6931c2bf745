package event

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

var ErrNotFound = errors.WithMessage(core.ErrNotFound, "event not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, e Event) (Event, error)
		GetEventByID(ctx context.Context, id primitive.ObjectID) (Event, error)
		QueryEventsByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]Event, error)
		UpdateEvent(ctx context.Context, e Event) (Event, error)
		DeleteEventByID(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, actor user.User, ne NewEvent) (Event, error) {
	if !actor.HasNGO() {
		return Event{}, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}

	now := time.Now().UTC()
	e := Event{
		NGOID:       actor.NGOID,
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		EventDate:   ne.EventDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, e)
}

func (svc *Service) Query(ctx context.Context, actor user.User) ([]Event, error) {
	if !actor.HasNGO() {
		return nil, core.NewValidationError(errors.New("user is not linked to any NGO"))
	}
	return svc.repo.QueryEventsByNGO(ctx, actor.NGOID)
}

func (svc *Service) get(ctx context.Context, actor user.User, id primitive.ObjectID) (Event, error) {
	e, err := svc.repo.GetEventByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.NGOID != actor.NGOID {
		return Event{}, errors.WithMessage(core.ErrPermissionDenied, "event does not belong to your NGO")
	}
	return e, nil
}

func (svc *Service) GetByID(ctx context.Context, actor user.User, id primitive.ObjectID) (Event, error) {
	return svc.get(ctx, actor, id)
}

func (svc *Service) Update(ctx context.Context, actor user.User, id primitive.ObjectID, ue UpdateEvent) (Event, error) {
	e, err := svc.get(ctx, actor, id)
	if err != nil {
		return Event{}, err
	}

	if ue.Title != "" {
		e.Title = ue.Title
	}
	if ue.Description != "" {
		e.Description = ue.Description
	}
	if ue.Location != "" {
		e.Location = ue.Location
	}
	if !ue.EventDate.IsZero() {
		e.EventDate = ue.EventDate
	}
	e.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(ctx, e)
}

func (svc *Service) Delete(ctx context.Context, actor user.User, id primitive.ObjectID) error {
	e, err := svc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteEventByID(ctx, e.ID)
}
