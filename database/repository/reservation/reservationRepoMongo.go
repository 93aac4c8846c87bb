package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"carental/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoReservationRepo is the MongoDB-backed implementation of
// ReservationRepository.
type MongoReservationRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
	cars       *mongo.Collection
}

// NewMongoReservationRepo wires the repository against the given database and
// ensures its indexes exist.
func NewMongoReservationRepo(client *mongo.Client, db *mongo.Database) *MongoReservationRepo {
	repo := &MongoReservationRepo{
		client:     client,
		collection: db.Collection("reservations"),
		cars:       db.Collection("cars"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to ensure reservation indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "car_id", Value: 1}, {Key: "start_date", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
