package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo wraps the client and the users collection handle.
type Mongo struct {
	Client *mongo.Client
	Users  *mongo.Collection
}

// OpenMongo connects to the document store and verifies the connection.
func OpenMongo(ctx context.Context, uri, database, usersCollection string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Mongo{
		Client: client,
		Users:  client.Database(database).Collection(usersCollection),
	}, nil
}

// EnsureIndexes creates the unique indexes on username and email.
// Registration relies on these to close the concurrent-insert race
// instead of trusting the application-level existence check alone.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	}

	if _, err := m.Users.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
