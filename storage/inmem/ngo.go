package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/ngo"
)

type ngoRepository struct {
	db *ngoTable
}

var _ ngo.Repository = (*ngoRepository)(nil)

func NewNGORepository(db *DB) ngo.Repository {
	return &ngoRepository{db: db.ngos}
}

func (repo *ngoRepository) CreateNGO(_ context.Context, n ngo.NGO) (ngo.NGO, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n.ID = primitive.NewObjectID()
	repo.db.rows[n.ID] = &n
	return n, nil
}

func (repo *ngoRepository) GetNGOByID(_ context.Context, id primitive.ObjectID) (ngo.NGO, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.rows[id]; ok {
		return *n, nil
	}
	return ngo.NGO{}, ngo.ErrNotFound
}

func (repo *ngoRepository) GetNGOByContactEmail(_ context.Context, email string) (ngo.NGO, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, n := range repo.db.rows {
		if n.ContactEmail == email {
			return *n, nil
		}
	}
	return ngo.NGO{}, ngo.ErrNotFound
}

func (repo *ngoRepository) QueryAllNGOs(_ context.Context) ([]ngo.NGO, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ngos := make([]ngo.NGO, 0, len(repo.db.rows))
	for _, n := range repo.db.rows {
		ngos = append(ngos, *n)
	}
	return ngos, nil
}

func (repo *ngoRepository) FilterNGOsByStatus(_ context.Context, status ngo.Status) ([]ngo.NGO, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ngos := make([]ngo.NGO, 0, len(repo.db.rows))
	for _, n := range repo.db.rows {
		if n.Status == status {
			ngos = append(ngos, *n)
		}
	}
	return ngos, nil
}

func (repo *ngoRepository) UpdateNGO(_ context.Context, n ngo.NGO) (ngo.NGO, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[n.ID]; !ok {
		return ngo.NGO{}, ngo.ErrNotFound
	}
	repo.db.rows[n.ID] = &n
	return n, nil
}

func (repo *ngoRepository) DeleteNGOByID(_ context.Context, id primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return ngo.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
