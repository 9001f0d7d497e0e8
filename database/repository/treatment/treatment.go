package treatmentRepo

import (
	"context"

	"knipetak/models"
)

// TreatmentCatalog defines read access to the published treatments.
type TreatmentCatalog interface {
	// List returns all treatments currently offered.
	List(ctx context.Context) ([]models.Treatment, error)
	// GetByID retrieves a single treatment.
	GetByID(ctx context.Context, treatmentID string) (*models.Treatment, error)
}
