package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// NewMongoClient creates a MongoDB client and verifies connectivity with a
// ping before returning it.
func NewMongoClient(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	if mongoURI == "" {
		return nil, fmt.Errorf("mongo URI cannot be empty")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Println("Successfully connected to MongoDB.")
	return client, nil
}

// CloseMongoClient disconnects the client, logging any error.
func CloseMongoClient(ctx context.Context, client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting mongo client: %v\n", err)
	} else {
		log.Println("MongoDB client disconnected.")
	}
}
