package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tangakou/msaada/core/task"
)

type taskRepository struct {
	col *mongo.Collection
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *mongo.Database) task.Repository {
	return &taskRepository{col: db.Collection(tasksCollection)}
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	res, err := repo.col.InsertOne(ctx, t)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id primitive.ObjectID) (task.Task, error) {
	var t task.Task
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "finding task by ID")
	}
	return t, nil
}

func (repo *taskRepository) FilterTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	query := bson.M{}
	if !filter.NGOID.IsZero() {
		query["ngo_id"] = filter.NGOID
	}
	if !filter.AssignedTo.IsZero() {
		query["assigned_to"] = filter.AssignedTo
	}

	cursor, err := repo.col.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "filtering tasks")
	}
	var tasks []task.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, errors.Wrap(err, "decoding tasks")
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if res.MatchedCount == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (repo *taskRepository) DeleteTaskByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	if res.DeletedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}
