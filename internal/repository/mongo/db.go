package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB connects to MongoDB using the provided URI and pings the
// primary before returning the client.
func ConnectDB(uri string) (*mongo.Client, error) {
	// Context with timeout for the connection attempt
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily, so ping the primary node on its own, shorter
	// timeout to find out whether the server actually answers.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Ping failed: release the client before returning the error
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx) // The ping error is the one worth reporting
		return nil, err
	}

	// Connection successful
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection this package owns.
// Failures are logged and never stop the server; main runs this in
// the background after connecting.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsurePlanIndexes(ctx, db.Collection(planCollectionName))
	EnsureWorkoutLogIndexes(ctx, db.Collection(workoutLogCollectionName))
	EnsureTemplateIndexes(ctx, db.Collection(templateCollectionName))
	log.Println("Index creation process completed.")
}
