// Seed utility: wipes and repopulates the knipetak database with a
// default weekly schedule, the treatment catalog, locations, and a batch
// of sample bookings spread over the coming weeks.
package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"knipetak/database"
	"knipetak/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	database.InitDB()
	client := database.MongoClient
	db := client.Database("knipetak")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	zone, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		log.Fatalf("Failed to load time zone: %v", err)
	}

	// Clear existing data.
	for _, name := range []string{"bookings", "treatments", "locations", "defaultAvailability", "availabilityOverrides"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	// Locations.
	locations := []models.Location{
		{ID: "home", Name: "Customer's home", City: "Oslo"},
		{ID: "clinic", Name: "Knipetak clinic", City: "Oslo"},
	}
	for _, loc := range locations {
		if _, err := db.Collection("locations").InsertOne(ctx, loc); err != nil {
			log.Fatalf("Failed to insert location %s: %v", loc.ID, err)
		}
	}

	// Treatments.
	treatments := []models.Treatment{
		{
			ID:   "classic",
			Name: "Classic massage",
			Durations: []models.DurationOption{
				{Duration: 30, Price: 500},
				{Duration: 60, Price: 900},
				{Duration: 90, Price: 1300},
			},
			Discounts: models.GroupDiscount{
				GroupSizeThreshold: 3,
				Prices:             map[string]float64{"30": 400, "60": 750},
			},
		},
		{
			ID:   "sports",
			Name: "Sports massage",
			Durations: []models.DurationOption{
				{Duration: 45, Price: 750},
				{Duration: 60, Price: 950},
			},
		},
	}
	for _, tr := range treatments {
		if _, err := db.Collection("treatments").InsertOne(ctx, tr); err != nil {
			log.Fatalf("Failed to insert treatment %s: %v", tr.ID, err)
		}
	}

	// Default weekly schedule: weekday home visits, Saturday at the clinic.
	weekday := models.WorkHours{TimeSlots: []models.WorkWindow{
		{Start: "09:00", End: "17:00", Location: "home"},
	}}
	weekly := models.WeeklySchedule{
		"monday":    weekday,
		"tuesday":   weekday,
		"wednesday": weekday,
		"thursday":  weekday,
		"friday":    weekday,
		"saturday":  {TimeSlots: []models.WorkWindow{{Start: "10:00", End: "14:00", Location: "clinic"}}},
	}
	doc := bson.M{"_id": "default_workhours", "weeklySchedule": weekly}
	if _, err := db.Collection("defaultAvailability").InsertOne(ctx, doc); err != nil {
		log.Fatalf("Failed to insert default weekly schedule: %v", err)
	}

	// Sample bookings over the next three weeks.
	rng := rand.New(rand.NewSource(42))
	inserted := 0
	for dayOffset := 1; dayOffset <= 21; dayOffset++ {
		day := time.Now().In(zone).AddDate(0, 0, dayOffset)
		if day.Weekday() == time.Sunday {
			continue
		}
		// One or two bookings per day at random offerable times.
		for i := 0; i < 1+rng.Intn(2); i++ {
			hour := 9 + rng.Intn(7)
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, zone)
			duration := []int{30, 60}[rng.Intn(2)]

			booking := models.Booking{
				ID:            uuid.New().String(),
				CustomerRef:   "seed-customer",
				CustomerName:  "Ola Nordmann",
				CustomerEmail: "ola@example.no",
				Date:          start.Format("2006-01-02"),
				Duration:      duration,
				Location:      models.CustomerLocation{Address: "Storgata 1", City: "Oslo", PostalCode: 150},
				Price:         500,
				Status:        models.BookingStatusConfirmed,
				Timeslot: models.TimeslotRange{
					Start: start.UTC(),
					End:   start.Add(time.Duration(duration) * time.Minute).UTC(),
				},
				TreatmentID: "classic",
				CreatedAt:   time.Now().UTC(),
			}
			if _, err := db.Collection("bookings").InsertOne(ctx, booking); err != nil {
				log.Fatalf("Failed to insert booking: %v", err)
			}
			inserted++
		}
	}

	log.Printf("Seeded %d locations, %d treatments, default schedule, %d bookings", len(locations), len(treatments), inserted)
}
