package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"carental/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateTransactionally inserts the reservation and, when the reservation is
// born active, flips the car to rented and records the rental-history entry in
// the same transaction.
func (r *MongoReservationRepo) CreateTransactionally(ctx context.Context, res *models.Reservation, change *CarStateChange) error {
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	if change == nil {
		_, err := r.collection.InsertOne(ctx, res)
		if err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.collection.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		return r.applyCarChange(sc, change)
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("reservation create transaction failed: %w", err)
	}
	return nil
}

// ApplyTransition persists the reservation field updates and the car-side
// effects inside one transaction, so a status never changes without its
// matching fleet state.
func (r *MongoReservationRepo) ApplyTransition(ctx context.Context, reservationID string, fields map[string]interface{}, change *CarStateChange) error {
	setDoc := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		setDoc[k] = v
	}
	update := bson.M{"$set": setDoc}

	if change == nil {
		result, err := r.collection.UpdateOne(ctx, bson.M{"id": reservationID}, update)
		if err != nil {
			return fmt.Errorf("failed to update reservation with id %s: %w", reservationID, err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("reservation with id %s not found", reservationID)
		}
		return nil
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		result, err := r.collection.UpdateOne(sc, bson.M{"id": reservationID}, update)
		if err != nil {
			return fmt.Errorf("update reservation failed: %w", err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("reservation with id %s not found", reservationID)
		}
		return r.applyCarChange(sc, change)
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("reservation transition transaction failed: %w", err)
	}
	return nil
}

// applyCarChange writes the car availability, current renter, and
// rental-history mutation described by change. Called inside a session
// context when part of a transaction.
func (r *MongoReservationRepo) applyCarChange(ctx context.Context, change *CarStateChange) error {
	setDoc := bson.M{
		"availability_status": change.Availability,
		"updated_at":          time.Now().UTC(),
	}
	if change.RenterID != "" {
		setDoc["current_renter_id"] = change.RenterID
	} else {
		setDoc["current_renter_id"] = nil
	}

	update := bson.M{"$set": setDoc}
	var opts []*options.UpdateOptions

	switch {
	case change.HistoryAppend != nil:
		update["$push"] = bson.M{"rental_history": change.HistoryAppend}
	case change.HistoryStatus != "":
		// Array filter targets the history entry written when the rental went
		// active. Records migrated from before history tracking may not have
		// one; the update still succeeds and only the car state changes.
		setDoc["rental_history.$[entry].status"] = change.HistoryStatus
		opts = append(opts, options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"entry.reservation_id": change.ReservationID}},
		}))
	}

	result, err := r.cars.UpdateOne(ctx, bson.M{"id": change.CarID}, update, opts...)
	if err != nil {
		return fmt.Errorf("update car state failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("car with id %s not found", change.CarID)
	}
	return nil
}
