package locationRepo

import (
	"context"
	"fmt"
	"time"

	"knipetak/database"
	"knipetak/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLocationRepo implements LocationDirectory using MongoDB.
type MongoLocationRepo struct {
	locationColl *mongo.Collection
}

// NewMongoLocationRepo constructs a new instance of MongoLocationRepo.
func NewMongoLocationRepo() LocationDirectory {
	db := database.MongoClient.Database("knipetak")
	return &MongoLocationRepo{
		locationColl: db.Collection("locations"),
	}
}

func (repo *MongoLocationRepo) List(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.locationColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	for cursor.Next(ctx) {
		var l models.Location
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("error decoding location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return locations, nil
}
