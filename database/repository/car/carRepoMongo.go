package carRepo

import (
	"context"
	"fmt"
	"time"

	"carental/models"
	"carental/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCarRepo is the MongoDB-backed implementation of CarRepository.
type MongoCarRepo struct {
	coll *mongo.Collection
}

// NewMongoCarRepo wires the repository against the given database and ensures
// its indexes exist.
func NewMongoCarRepo(db *mongo.Database) *MongoCarRepo {
	repo := &MongoCarRepo{coll: db.Collection("cars")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to ensure car indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCarRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "license_plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "availability_status", Value: 1}}},
		{Keys: bson.D{{Key: "rental_history.renter_id", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create car indexes: %w", err)
	}
	return nil
}

// Create inserts a new car document.
func (r *MongoCarRepo) Create(car *models.Car) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	car.CreatedAt = now
	car.UpdatedAt = now
	if car.RentalHistory == nil {
		car.RentalHistory = []models.RentalRecord{}
	}

	if _, err := r.coll.InsertOne(ctx, car); err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetByID fetches a car by its ID. Returns (nil, nil) when absent.
func (r *MongoCarRepo) GetByID(id string) (*models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var car models.Car
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch car with id %s: %w", id, err)
	}
	return &car, nil
}

// GetByLicensePlate fetches a car by its plate. Returns (nil, nil) when
// absent.
func (r *MongoCarRepo) GetByLicensePlate(plate string) (*models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var car models.Car
	err := r.coll.FindOne(ctx, bson.M{"license_plate": plate}).Decode(&car)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch car with plate %s: %w", plate, err)
	}
	return &car, nil
}

// List returns a page of cars matching the filter together with the total
// match count.
func (r *MongoCarRepo) List(f ListFilter) ([]models.Car, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		regex := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"brand": regex},
			{"model": regex},
			{"license_plate": regex},
		}
	}
	if f.Availability != "" {
		filter["availability_status"] = f.Availability
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	rate := bson.M{}
	if f.MinRate > 0 {
		rate["$gte"] = f.MinRate
	}
	if f.MaxRate > 0 {
		rate["$lte"] = f.MaxRate
	}
	if len(rate) > 0 {
		filter["price_per_day"] = rate
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Car
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cars: %w", err)
	}
	return results, total, nil
}

// GetAll returns the whole fleet. Used by utilization reporting.
func (r *MongoCarRepo) GetAll() ([]models.Car, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fleet: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Car
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode fleet: %w", err)
	}
	return results, nil
}

// Update applies a partial $set update to a car document.
func (r *MongoCarRepo) Update(id string, updates map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	setDoc := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range updates {
		setDoc[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": setDoc})
	if err != nil {
		return fmt.Errorf("failed to update car with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("car with id %s not found", id)
	}
	return nil
}

// Delete removes a car document by its ID.
func (r *MongoCarRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("car with id %s not found", id)
	}
	return nil
}

// CountByAvailability counts cars in the given availability state.
func (r *MongoCarRepo) CountByAvailability(availability models.CarAvailability) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"availability_status": availability})
	if err != nil {
		return 0, fmt.Errorf("failed to count cars with availability %s: %w", availability, err)
	}
	return count, nil
}

// FindByHistoryRenter returns cars whose rental history mentions the client.
func (r *MongoCarRepo) FindByHistoryRenter(clientID string) ([]models.Car, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"rental_history.renter_id": clientID}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars rented by client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var results []models.Car
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode cars rented by client %s: %w", clientID, err)
	}
	return results, nil
}
