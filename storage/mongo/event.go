package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tangakou/msaada/core/event"
)

type eventRepository struct {
	col *mongo.Collection
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *mongo.Database) event.Repository {
	return &eventRepository{col: db.Collection(eventsCollection)}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	res, err := repo.col.InsertOne(ctx, e)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return e, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id primitive.ObjectID) (event.Event, error) {
	var e event.Event
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "finding event by ID")
	}
	return e, nil
}

func (repo *eventRepository) QueryEventsByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]event.Event, error) {
	cursor, err := repo.col.Find(ctx, bson.M{"ngo_id": ngoID})
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	var events []event.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "decoding events")
	}
	return events, nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if res.MatchedCount == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return e, nil
}

func (repo *eventRepository) DeleteEventByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if res.DeletedCount == 0 {
		return event.ErrNotFound
	}
	return nil
}
