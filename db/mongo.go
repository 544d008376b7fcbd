package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"beatstore/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// One client per process, created lazily on first use and reused by every
// request after that. There is no explicit teardown beyond CloseMongo.
var (
	mongoClient *mongo.Client
	mongoDBName string
	mongoURI    string
	mongoOnce   sync.Once
	mongoErr    error
)

// ConfigureMongo records the connection settings without dialing. The actual
// connection happens on first MongoClient call so a missing database only
// fails the requests that need it, not process startup.
func ConfigureMongo(cfg *config.Config) {
	mongoURI = cfg.MongoURI
	mongoDBName = cfg.MongoDatabase
}

// MongoClient returns the shared client, connecting on first call.
func MongoClient(ctx context.Context) (*mongo.Client, error) {
	mongoOnce.Do(func() {
		if mongoURI == "" {
			mongoErr = fmt.Errorf("MONGODB_URI is not configured")
			return
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			mongoErr = fmt.Errorf("failed to connect to MongoDB: %w", err)
			return
		}

		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			mongoErr = fmt.Errorf("failed to ping MongoDB: %w", err)
			return
		}

		mongoClient = client
	})

	if mongoErr != nil {
		return nil, mongoErr
	}
	return mongoClient, nil
}

// BeatsCollection returns the beats collection of the configured database.
func BeatsCollection(ctx context.Context) (*mongo.Collection, error) {
	client, err := MongoClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(mongoDBName).Collection("beats"), nil
}

// CloseMongo disconnects the shared client if one was ever created.
func CloseMongo(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}
