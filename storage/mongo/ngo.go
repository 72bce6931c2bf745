package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tangakou/msaada/core/ngo"
)

type ngoRepository struct {
	col *mongo.Collection
}

var _ ngo.Repository = (*ngoRepository)(nil)

func NewNGORepository(db *mongo.Database) ngo.Repository {
	return &ngoRepository{col: db.Collection(ngosCollection)}
}

func (repo *ngoRepository) CreateNGO(ctx context.Context, n ngo.NGO) (ngo.NGO, error) {
	res, err := repo.col.InsertOne(ctx, n)
	if err != nil {
		return ngo.NGO{}, errors.Wrap(err, "inserting NGO")
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return n, nil
}

func (repo *ngoRepository) GetNGOByID(ctx context.Context, id primitive.ObjectID) (ngo.NGO, error) {
	var n ngo.NGO
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ngo.NGO{}, ngo.ErrNotFound
		}
		return ngo.NGO{}, errors.Wrap(err, "finding NGO by ID")
	}
	return n, nil
}

func (repo *ngoRepository) GetNGOByContactEmail(ctx context.Context, email string) (ngo.NGO, error) {
	var n ngo.NGO
	err := repo.col.FindOne(ctx, bson.M{"contact_email": email}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ngo.NGO{}, ngo.ErrNotFound
		}
		return ngo.NGO{}, errors.Wrap(err, "finding NGO by contact email")
	}
	return n, nil
}

func (repo *ngoRepository) QueryAllNGOs(ctx context.Context) ([]ngo.NGO, error) {
	cursor, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying NGOs")
	}
	var ngos []ngo.NGO
	if err = cursor.All(ctx, &ngos); err != nil {
		return nil, errors.Wrap(err, "decoding NGOs")
	}
	return ngos, nil
}

func (repo *ngoRepository) FilterNGOsByStatus(ctx context.Context, status ngo.Status) ([]ngo.NGO, error) {
	cursor, err := repo.col.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, errors.Wrap(err, "filtering NGOs by status")
	}
	var ngos []ngo.NGO
	if err = cursor.All(ctx, &ngos); err != nil {
		return nil, errors.Wrap(err, "decoding NGOs")
	}
	return ngos, nil
}

func (repo *ngoRepository) UpdateNGO(ctx context.Context, n ngo.NGO) (ngo.NGO, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": n.ID}, n)
	if err != nil {
		return ngo.NGO{}, errors.Wrap(err, "updating NGO")
	}
	if res.MatchedCount == 0 {
		return ngo.NGO{}, ngo.ErrNotFound
	}
	return n, nil
}

func (repo *ngoRepository) DeleteNGOByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting NGO")
	}
	if res.DeletedCount == 0 {
		return ngo.ErrNotFound
	}
	return nil
}
