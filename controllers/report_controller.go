package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherpoint/checkin-go/models"
)

// ReportController exposes the read-only audit surfaces consumed by
// reporting and rewards features.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// GetEventCheckIns lists the check-in attempts recorded for an event, newest
// first.
func (rc *ReportController) GetEventCheckIns(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := rc.DB.First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var records []models.CheckInRecord
	if err := rc.DB.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"check_ins": records,
		"count":     len(records),
	})
}

// GetParticipantCheckIns lists a participant's audit trail, newest first.
func (rc *ReportController) GetParticipantCheckIns(c *gin.Context) {
	participantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	var records []models.CheckInRecord
	if err := rc.DB.Where("participant_id = ?", participantID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"check_ins": records,
		"count":     len(records),
	})
}

// GetParticipantPoints returns the participant's current ledger total along
// with the sum awarded through approved check-ins. The two figures match by
// construction; exposing both lets consumers audit that.
func (rc *ReportController) GetParticipantPoints(c *gin.Context) {
	participantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	var participant models.Participant
	if err := rc.DB.First(&participant, participantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var awarded int64
	if err := rc.DB.Model(&models.CheckInRecord{}).
		Where("participant_id = ? AND outcome = ?", participantID, models.CheckInApproved).
		Select("COALESCE(SUM(awarded_points), 0)").
		Scan(&awarded).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant_id": participant.ID,
		"total_points":   participant.TotalPoints,
		"awarded_points": awarded,
	})
}
