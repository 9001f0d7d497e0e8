package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knipetak/database"
	"knipetak/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingStore using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingStore {
	db := database.MongoClient.Database("knipetak")
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
	}
}

// FindActiveByDateRange queries by timeslot.start within the given bounds.
// Results are deduplicated by id.
func (repo *MongoBookingRepo) FindActiveByDateRange(ctx context.Context, startUTC, endUTC time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"timeslot.start": bson.M{"$gte": startUTC, "$lt": endUTC},
		"status":         bson.M{"$ne": models.BookingStatusCancelled},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings in range: %w", err)
	}
	defer cursor.Close(ctx)

	seen := make(map[string]bool)
	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) Create(ctx context.Context, draft models.Booking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	if draft.Status == "" {
		draft.Status = models.BookingStatusPending
	}
	if _, err := repo.bookingColl.InsertOne(ctx, draft); err != nil {
		return "", fmt.Errorf("error creating booking: %w", err)
	}
	return draft.ID, nil
}

func (repo *MongoBookingRepo) SetStatus(ctx context.Context, bookingID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status}}
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("error updating status for booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &b, nil
}

func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, customerRef string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.bookingColl.Find(ctx, bson.M{"customerRef": customerRef})
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for customer %s: %w", customerRef, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}
