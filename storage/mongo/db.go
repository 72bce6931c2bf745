package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tangakou/msaada/core"
)

const (
	usersCollection     = "users"
	ngosCollection      = "ngos"
	tasksCollection     = "tasks"
	donationsCollection = "donations"
	eventsCollection    = "events"
)

// Open connects to MongoDB and returns the application database along with a
// close function.
func Open(conf *core.Config) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to MongoDB")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, errors.Wrap(err, "pinging MongoDB")
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(conf.Database.Name), closeFn, nil
}

// EnsureIndexes creates the unique indexes the services rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	})
	if err != nil {
		return errors.Wrap(err, "creating users.email index")
	}

	_, err = db.Collection(ngosCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "contact_email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return errors.Wrap(err, "creating ngos indexes")
}
