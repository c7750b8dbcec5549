// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// GetByPlanID retrieves the side-table logged against a plan.
func (r *mongoWorkoutLogRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutLog, error) {
	var wl domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"planId": planID}).Decode(&wl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if wl.Tracking == nil {
		wl.Tracking = domain.Tracking{}
	}
	return &wl, nil
}

// Upsert writes the whole side-table for the plan, one document per plan.
func (r *mongoWorkoutLogRepository) Upsert(ctx context.Context, wl *domain.WorkoutLog) error {
	if wl.PlanID == primitive.NilObjectID {
		return errors.New("workout log requires planId")
	}
	wl.UpdatedAt = time.Now().UTC()

	filter := bson.M{"planId": wl.PlanID}
	update := bson.M{
		"$set": bson.M{
			"clientId":  wl.ClientID,
			"tracking":  wl.Tracking,
			"updatedAt": wl.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteByPlanID drops the logs of a deleted plan. Missing logs are fine.
func (r *mongoWorkoutLogRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"planId": planID})
	return err
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
