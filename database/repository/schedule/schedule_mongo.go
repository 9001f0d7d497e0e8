package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knipetak/database"
	"knipetak/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultWeeklyDocID is the fixed id of the singleton weekly-schedule document.
const defaultWeeklyDocID = "default_workhours"

// MongoScheduleRepo implements ScheduleStore using MongoDB.
type MongoScheduleRepo struct {
	overrideColl *mongo.Collection
	defaultColl  *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() ScheduleStore {
	db := database.MongoClient.Database("knipetak")
	return &MongoScheduleRepo{
		overrideColl: db.Collection("availabilityOverrides"),
		defaultColl:  db.Collection("defaultAvailability"),
	}
}

func (repo *MongoScheduleRepo) GetOverride(ctx context.Context, dayKey string) (*models.DayOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var override models.DayOverride
	err := repo.overrideColl.FindOne(ctx, bson.M{"date": dayKey}).Decode(&override)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching override for %s: %w", dayKey, err)
	}
	return &override, nil
}

func (repo *MongoScheduleRepo) GetDefaultWeekly(ctx context.Context) (models.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc struct {
		WeeklySchedule models.WeeklySchedule `bson:"weeklySchedule"`
	}
	err := repo.defaultColl.FindOne(ctx, bson.M{"_id": defaultWeeklyDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching default weekly schedule: %w", err)
	}
	return doc.WeeklySchedule, nil
}

func (repo *MongoScheduleRepo) SetDefaultWeekly(ctx context.Context, schedule models.WeeklySchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"weeklySchedule": schedule}}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.defaultColl.UpdateByID(ctx, defaultWeeklyDocID, update, opts); err != nil {
		return fmt.Errorf("error setting default weekly schedule: %w", err)
	}
	return nil
}

func (repo *MongoScheduleRepo) SetOverride(ctx context.Context, override models.DayOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"date": override.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.overrideColl.ReplaceOne(ctx, filter, override, opts); err != nil {
		return fmt.Errorf("error setting override for %s: %w", override.Date, err)
	}
	return nil
}

func (repo *MongoScheduleRepo) DeleteOverride(ctx context.Context, dayKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.overrideColl.DeleteOne(ctx, bson.M{"date": dayKey}); err != nil {
		return fmt.Errorf("error deleting override for %s: %w", dayKey, err)
	}
	return nil
}

func (repo *MongoScheduleRepo) ListOverrides(ctx context.Context, from, to string) ([]models.DayOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Day keys are "YYYY-MM-DD", so lexicographic range comparison is correct.
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	cursor, err := repo.overrideColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.DayOverride
	for cursor.Next(ctx) {
		var o models.DayOverride
		if err := cursor.Decode(&o); err != nil {
			return nil, fmt.Errorf("error decoding override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return overrides, nil
}
