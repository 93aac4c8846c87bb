package managerRepo

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

// ManagerRepository persists staff accounts.
type ManagerRepository interface {
	Create(manager *models.Manager) error
	GetByID(id string) (*models.Manager, error)
	GetByEmail(email string) (*models.Manager, error)
	GetAll() ([]models.Manager, error)
	Update(id string, updates map[string]interface{}) error
	Delete(id string) error
	CountByRole(role models.ManagerRole) (int64, error)
}

// MongoManagerRepo is the MongoDB-backed implementation of ManagerRepository.
type MongoManagerRepo struct {
	coll *mongo.Collection
}

// NewMongoManagerRepo wires the repository against the given database and
// ensures its indexes exist.
func NewMongoManagerRepo(db *mongo.Database) *MongoManagerRepo {
	repo := &MongoManagerRepo{coll: db.Collection("managers")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to ensure manager indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoManagerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create manager indexes: %w", err)
	}
	return nil
}

// Create inserts a new manager document.
func (r *MongoManagerRepo) Create(manager *models.Manager) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	manager.CreatedAt = now
	manager.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, manager); err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	return nil
}

// GetByID fetches a manager by its ID. Returns (nil, nil) when absent.
func (r *MongoManagerRepo) GetByID(id string) (*models.Manager, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var manager models.Manager
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&manager)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manager with id %s: %w", id, err)
	}
	return &manager, nil
}

// GetByEmail fetches a manager by email. Returns (nil, nil) when absent.
func (r *MongoManagerRepo) GetByEmail(email string) (*models.Manager, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var manager models.Manager
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&manager)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manager with email %s: %w", email, err)
	}
	return &manager, nil
}

// GetAll returns every staff account, excluding password hashes.
func (r *MongoManagerRepo) GetAll() ([]models.Manager, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password_hash": 0, "token_hash": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Manager
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode managers: %w", err)
	}
	return results, nil
}

// Update applies a partial $set update to a manager document.
func (r *MongoManagerRepo) Update(id string, updates map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	setDoc := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range updates {
		setDoc[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": setDoc})
	if err != nil {
		return fmt.Errorf("failed to update manager with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("manager with id %s not found", id)
	}
	return nil
}

// Delete removes a manager document by its ID.
func (r *MongoManagerRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete manager with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("manager with id %s not found", id)
	}
	return nil
}

// CountByRole counts staff accounts holding the given role.
func (r *MongoManagerRepo) CountByRole(role models.ManagerRole) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("failed to count managers with role %s: %w", role, err)
	}
	return count, nil
}
