package reservationRepo

import (
	"fmt"
	"time"

	"carental/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOverlapping returns the non-terminal reservations for carID whose
// interval intersects [start, end). Intervals are half-open, so a reservation
// ending exactly when the candidate starts does not collide.
func (r *MongoReservationRepo) FindOverlapping(carID string, start, end time.Time, excludeID string) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"car_id":     carID,
		"status":     bson.M{"$in": models.NonTerminalStatuses()},
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations for car %s: %w", carID, err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping reservations: %w", err)
	}
	return results, nil
}

// FindInWindow returns non-terminal reservations whose interval touches the
// window, optionally restricted to one car.
func (r *MongoReservationRepo) FindInWindow(carID string, start, end time.Time) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     bson.M{"$in": models.NonTerminalStatuses()},
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	}
	if carID != "" {
		filter["car_id"] = carID
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations in window: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode reservations in window: %w", err)
	}
	return results, nil
}

// CountByStatus counts reservations currently in the given status.
func (r *MongoReservationRepo) CountByStatus(status models.ReservationStatus) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations with status %s: %w", status, err)
	}
	return count, nil
}

// CountCreatedBetween counts reservations created inside [start, end).
func (r *MongoReservationRepo) CountCreatedBetween(start, end time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"created_at": bson.M{"$gte": start, "$lt": end}}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations created between %s and %s: %w", start, end, err)
	}
	return count, nil
}

// SumCompletedRevenue totals the amounts of completed reservations whose
// rental ended inside [start, end).
func (r *MongoReservationRepo) SumCompletedRevenue(start, end time.Time) (float64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{
			"status":   models.StatusCompleted,
			"end_date": bson.M{"$gte": start, "$lt": end},
		}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total_amount"},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate completed revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode revenue aggregate: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// FindRecent returns reservations created since the given instant, newest
// first, up to limit.
func (r *MongoReservationRepo) FindRecent(since time.Time, limit int64) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"created_at": bson.M{"$gte": since}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode recent reservations: %w", err)
	}
	return results, nil
}

// FindCompletedBetween returns completed reservations whose rental ended
// inside [start, end).
func (r *MongoReservationRepo) FindCompletedBetween(start, end time.Time) ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":   models.StatusCompleted,
		"end_date": bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query completed reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode completed reservations: %w", err)
	}
	return results, nil
}

// FindOutstandingPayments returns reservations that still owe money: unpaid
// or partially paid, and not cancelled.
func (r *MongoReservationRepo) FindOutstandingPayments() ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"payment_status": bson.M{"$in": []models.PaymentStatus{models.PaymentUnpaid, models.PaymentPartial}},
		"status":         bson.M{"$ne": models.StatusCancelled},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding payments: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode outstanding payments: %w", err)
	}
	return results, nil
}

// DepositSummary totals held deposits grouped by reservation status.
func (r *MongoReservationRepo) DepositSummary() ([]DepositAggregate, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"deposit_amount": bson.M{"$gt": 0}}},
		{"$group": bson.M{
			"_id":            "$status",
			"total_deposits": bson.M{"$sum": "$deposit_amount"},
			"count":          bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate deposits: %w", err)
	}
	defer cursor.Close(ctx)

	var results []DepositAggregate
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode deposit aggregates: %w", err)
	}
	return results, nil
}

// PopularCars returns the most reserved cars in descending order.
func (r *MongoReservationRepo) PopularCars(limit int64) ([]CarAggregate, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":               "$car_id",
			"reservation_count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"reservation_count": -1}},
		{"$limit": limit},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate popular cars: %w", err)
	}
	defer cursor.Close(ctx)

	var results []CarAggregate
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode car aggregates: %w", err)
	}
	return results, nil
}

// TopClients returns the clients with the most reservations in descending
// order, with their lifetime spend.
func (r *MongoReservationRepo) TopClients(limit int64) ([]ClientAggregate, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":               "$client_id",
			"reservation_count": bson.M{"$sum": 1},
			"total_spent":       bson.M{"$sum": "$total_amount"},
		}},
		{"$sort": bson.M{"reservation_count": -1}},
		{"$limit": limit},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top clients: %w", err)
	}
	defer cursor.Close(ctx)

	var results []ClientAggregate
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode client aggregates: %w", err)
	}
	return results, nil
}

// FindByCarTouchingRange returns the car's reservations in the given statuses
// whose interval intersects [start, end).
func (r *MongoReservationRepo) FindByCarTouchingRange(carID string, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"car_id":     carID,
		"status":     bson.M{"$in": statuses},
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for car %s: %w", carID, err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode reservations for car %s: %w", carID, err)
	}
	return results, nil
}

// FindByClientCreatedBetween returns the client's reservations created inside
// [start, end), newest first.
func (r *MongoReservationRepo) FindByClientCreatedBetween(clientID string, start, end time.Time) ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"client_id":  clientID,
		"created_at": bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode reservations for client %s: %w", clientID, err)
	}
	return results, nil
}

// FindStartingBetween returns reservations in the given statuses whose rental
// starts inside [start, end), soonest first.
func (r *MongoReservationRepo) FindStartingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     bson.M{"$in": statuses},
		"start_date": bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming pickups: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming pickups: %w", err)
	}
	return results, nil
}

// FindEndingBetween returns reservations in the given statuses whose rental
// ends inside [start, end), soonest first.
func (r *MongoReservationRepo) FindEndingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":   bson.M{"$in": statuses},
		"end_date": bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming returns: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming returns: %w", err)
	}
	return results, nil
}

// FindOverdue returns still-active reservations whose end date has passed.
func (r *MongoReservationRepo) FindOverdue(asOf time.Time) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":   models.StatusActive,
		"end_date": bson.M{"$lt": asOf},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode overdue reservations: %w", err)
	}
	return results, nil
}
