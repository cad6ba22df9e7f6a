package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherpoint/checkin-go/engine"
)

// CodeController is the venue-staff surface for daily codes.
type CodeController struct {
	Registry *engine.CodeRegistry
}

func NewCodeController(registry *engine.CodeRegistry) *CodeController {
	return &CodeController{Registry: registry}
}

// IssueDailyCode returns today's code for the venue, minting it on the first
// request of the day. Calling it again on the same day returns the identical
// emission.
func (cc *CodeController) IssueDailyCode(c *gin.Context) {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	emission, err := cc.Registry.GetOrCreateEmission(c.Request.Context(), uint(venueID), time.Now())
	if err != nil {
		if errors.Is(err, engine.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue daily code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue_id":            emission.VenueID,
		"code_date":           emission.CodeDate,
		"code":                emission.Code,
		"points_per_check_in": emission.PointsPerCheckIn,
		"active":              emission.Active,
	})
}

// RevokeDailyCode deactivates today's code. The emission row is kept.
func (cc *CodeController) RevokeDailyCode(c *gin.Context) {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	emission, err := cc.Registry.Revoke(c.Request.Context(), uint(venueID), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		case errors.Is(err, engine.ErrEmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No code issued for today"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke daily code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue_id":  emission.VenueID,
		"code_date": emission.CodeDate,
		"active":    emission.Active,
	})
}
