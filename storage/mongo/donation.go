package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tangakou/msaada/core/donation"
)

type donationRepository struct {
	col *mongo.Collection
}

var _ donation.Repository = (*donationRepository)(nil)

func NewDonationRepository(db *mongo.Database) donation.Repository {
	return &donationRepository{col: db.Collection(donationsCollection)}
}

func (repo *donationRepository) CreateDonation(ctx context.Context, d donation.Donation) (donation.Donation, error) {
	res, err := repo.col.InsertOne(ctx, d)
	if err != nil {
		return donation.Donation{}, errors.Wrap(err, "inserting donation")
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d, nil
}

func (repo *donationRepository) GetDonationByID(ctx context.Context, id primitive.ObjectID) (donation.Donation, error) {
	var d donation.Donation
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return donation.Donation{}, donation.ErrNotFound
		}
		return donation.Donation{}, errors.Wrap(err, "finding donation by ID")
	}
	return d, nil
}

func (repo *donationRepository) QueryDonationsByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]donation.Donation, error) {
	cursor, err := repo.col.Find(ctx, bson.M{"ngo_id": ngoID})
	if err != nil {
		return nil, errors.Wrap(err, "querying donations")
	}
	var donations []donation.Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, errors.Wrap(err, "decoding donations")
	}
	return donations, nil
}

func (repo *donationRepository) UpdateDonation(ctx context.Context, d donation.Donation) (donation.Donation, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return donation.Donation{}, errors.Wrap(err, "updating donation")
	}
	if res.MatchedCount == 0 {
		return donation.Donation{}, donation.ErrNotFound
	}
	return d, nil
}

func (repo *donationRepository) DeleteDonationByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting donation")
	}
	if res.DeletedCount == 0 {
		return donation.ErrNotFound
	}
	return nil
}
