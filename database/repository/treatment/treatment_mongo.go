package treatmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knipetak/database"
	"knipetak/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTreatmentRepo implements TreatmentCatalog using MongoDB.
type MongoTreatmentRepo struct {
	treatmentColl *mongo.Collection
}

// NewMongoTreatmentRepo constructs a new instance of MongoTreatmentRepo.
func NewMongoTreatmentRepo() TreatmentCatalog {
	db := database.MongoClient.Database("knipetak")
	return &MongoTreatmentRepo{
		treatmentColl: db.Collection("treatments"),
	}
}

func (repo *MongoTreatmentRepo) List(ctx context.Context) ([]models.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.treatmentColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching treatments: %w", err)
	}
	defer cursor.Close(ctx)

	var treatments []models.Treatment
	for cursor.Next(ctx) {
		var t models.Treatment
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("error decoding treatment: %w", err)
		}
		treatments = append(treatments, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return treatments, nil
}

func (repo *MongoTreatmentRepo) GetByID(ctx context.Context, treatmentID string) (*models.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t models.Treatment
	err := repo.treatmentColl.FindOne(ctx, bson.M{"id": treatmentID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("treatment %s not found", treatmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching treatment %s: %w", treatmentID, err)
	}
	return &t, nil
}
