package locationRepo

import (
	"context"

	"knipetak/models"
)

// LocationDirectory defines read access to the provider's venues.
type LocationDirectory interface {
	// List returns all known locations.
	List(ctx context.Context) ([]models.Location, error)
}
