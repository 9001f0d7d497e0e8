package handlers

import (
	"net/http"

	locationRepo "knipetak/database/repository/location"
	treatmentRepo "knipetak/database/repository/treatment"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only treatment and location catalogs the
// booking flow selects from.
type CatalogHandler struct {
	Treatments treatmentRepo.TreatmentCatalog
	Locations  locationRepo.LocationDirectory
}

func NewCatalogHandler(treatments treatmentRepo.TreatmentCatalog, locations locationRepo.LocationDirectory) *CatalogHandler {
	return &CatalogHandler{Treatments: treatments, Locations: locations}
}

func (h *CatalogHandler) ListTreatmentsHandler(c *gin.Context) {
	treatments, err := h.Treatments.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list treatments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"treatments": treatments})
}

func (h *CatalogHandler) GetTreatmentHandler(c *gin.Context) {
	treatment, err := h.Treatments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "treatment not found"})
		return
	}
	c.JSON(http.StatusOK, treatment)
}

func (h *CatalogHandler) ListLocationsHandler(c *gin.Context) {
	locations, err := h.Locations.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
