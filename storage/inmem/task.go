package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.tasks}
}

func (repo *taskRepository) CreateTask(_ context.Context, t task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = primitive.NewObjectID()
	repo.db.rows[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) GetTaskByID(_ context.Context, id primitive.ObjectID) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.rows[id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) FilterTasks(_ context.Context, filter task.Filter) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0, len(repo.db.rows))
	for _, t := range repo.db.rows {
		if !filter.NGOID.IsZero() && t.NGOID != filter.NGOID {
			continue
		}
		if !filter.AssignedTo.IsZero() && t.AssignedTo != filter.AssignedTo {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(_ context.Context, t task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.rows[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) DeleteTaskByID(_ context.Context, id primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return task.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
