package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatherpoint/checkin-go/engine"
	"github.com/gatherpoint/checkin-go/geo"
)

type CheckInController struct {
	Engine *engine.Orchestrator
}

func NewCheckInController(eng *engine.Orchestrator) *CheckInController {
	return &CheckInController{Engine: eng}
}

type SubmitCheckInRequest struct {
	Code             string   `json:"code" binding:"required"`
	ParticipantID    uint     `json:"participant_id" binding:"required"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PreferredEventID *uint    `json:"preferred_event_id"`
}

type SubmitScanRequest struct {
	Payload          string   `json:"payload" binding:"required"`
	ParticipantID    uint     `json:"participant_id" binding:"required"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PreferredEventID *uint    `json:"preferred_event_id"`
}

// Submit validates a typed daily code.
func (cc *CheckInController) Submit(c *gin.Context) {
	var req SubmitCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cc.validate(c, engine.SubmitRequest{
		Code:             req.Code,
		ParticipantID:    req.ParticipantID,
		Coordinate:       coordinateFrom(req.Latitude, req.Longitude),
		PreferredEventID: req.PreferredEventID,
	})
}

// SubmitScan validates a scanned payload. The payload is the code; there is
// no signing layer.
func (cc *CheckInController) SubmitScan(c *gin.Context) {
	var req SubmitScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cc.validate(c, engine.SubmitRequest{
		Code:             req.Payload,
		ParticipantID:    req.ParticipantID,
		Coordinate:       coordinateFrom(req.Latitude, req.Longitude),
		PreferredEventID: req.PreferredEventID,
	})
}

func (cc *CheckInController) validate(c *gin.Context, req engine.SubmitRequest) {
	result, err := cc.Engine.Validate(c.Request.Context(), req)
	if err != nil {
		respondRejection(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"check_in": result,
	})
}

// respondBindError maps an unparsable latitude/longitude to the
// MISSING_LOCATION taxonomy response; unparsable coordinates are a location
// failure, not a generic bad request. Everything else stays a 400.
func respondBindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && (typeErr.Field == "latitude" || typeErr.Field == "longitude") {
		respondRejection(c, &engine.Rejection{
			Reason:  engine.ReasonMissingLocation,
			Message: "coordinate is absent or unparsable",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func coordinateFrom(lat, lon *float64) *geo.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *lat, Longitude: *lon}
}

func respondRejection(c *gin.Context, err error) {
	rej, ok := engine.AsRejection(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "reason": engine.ReasonInternal, "message": "internal error"})
		return
	}

	body := gin.H{
		"success": false,
		"reason":  rej.Reason,
		"message": rej.Message,
	}
	if rej.DistanceMeters != nil {
		body["distance_meters"] = *rej.DistanceMeters
	}
	if rej.PriorCheckInID != nil {
		body["prior_check_in_id"] = *rej.PriorCheckInID
	}

	c.JSON(statusFor(rej.Reason), body)
}

func statusFor(reason engine.Reason) int {
	switch reason {
	case engine.ReasonCodeInvalidOrExpired:
		return http.StatusNotFound
	case engine.ReasonNotEligible:
		return http.StatusForbidden
	case engine.ReasonDuplicate:
		return http.StatusConflict
	case engine.ReasonNoActiveEvent, engine.ReasonMissingLocation, engine.ReasonOutOfRange:
		return http.StatusUnprocessableEntity
	default:
		// STRUCTURAL_MISMATCH and ERROR_INTERNAL.
		return http.StatusInternalServerError
	}
}
