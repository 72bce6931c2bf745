package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.events}
}

func (repo *eventRepository) CreateEvent(_ context.Context, e event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = primitive.NewObjectID()
	repo.db.rows[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) GetEventByID(_ context.Context, id primitive.ObjectID) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.rows[id]; ok {
		return *e, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryEventsByNGO(_ context.Context, ngoID primitive.ObjectID) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0, len(repo.db.rows))
	for _, e := range repo.db.rows {
		if e.NGOID == ngoID {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (repo *eventRepository) UpdateEvent(_ context.Context, e event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[e.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	repo.db.rows[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) DeleteEventByID(_ context.Context, id primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return event.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
