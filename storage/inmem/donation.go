package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core/donation"
)

type donationRepository struct {
	db *donationTable
}

var _ donation.Repository = (*donationRepository)(nil)

func NewDonationRepository(db *DB) donation.Repository {
	return &donationRepository{db: db.donations}
}

func (repo *donationRepository) CreateDonation(_ context.Context, d donation.Donation) (donation.Donation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	d.ID = primitive.NewObjectID()
	repo.db.rows[d.ID] = &d
	return d, nil
}

func (repo *donationRepository) GetDonationByID(_ context.Context, id primitive.ObjectID) (donation.Donation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.rows[id]; ok {
		return *d, nil
	}
	return donation.Donation{}, donation.ErrNotFound
}

func (repo *donationRepository) QueryDonationsByNGO(_ context.Context, ngoID primitive.ObjectID) ([]donation.Donation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	donations := make([]donation.Donation, 0, len(repo.db.rows))
	for _, d := range repo.db.rows {
		if d.NGOID == ngoID {
			donations = append(donations, *d)
		}
	}
	return donations, nil
}

func (repo *donationRepository) UpdateDonation(_ context.Context, d donation.Donation) (donation.Donation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[d.ID]; !ok {
		return donation.Donation{}, donation.ErrNotFound
	}
	repo.db.rows[d.ID] = &d
	return d, nil
}

func (repo *donationRepository) DeleteDonationByID(_ context.Context, id primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return donation.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
