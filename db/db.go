package db

import (
	"context"
	"fmt"
	"time"

	"harvesthub/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB holds the client and every collection the server uses.
type DB struct {
	Client *mongo.Client

	CropsCollection   *mongo.Collection
	UserCollection    *mongo.Collection
	SchemesCollection *mongo.Collection
}

// Connect dials MongoDB and pings the deployment before returning.
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	return &DB{
		Client:            client,
		CropsCollection:   db.Collection("crops"),
		UserCollection:    db.Collection("users"),
		SchemesCollection: db.Collection("schemes"),
	}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
