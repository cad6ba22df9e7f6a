package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherpoint/checkin-go/models"
)

type LeaderboardController struct {
	DB *gorm.DB
}

type LeaderboardQuery struct {
	TimeFilter string `form:"timeFilter" binding:"omitempty,oneof=all_time weekly monthly"`
	VenueID    uint   `form:"venueId"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"pageSize,default=10" binding:"min=1,max=50"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	ParticipantID uint   `json:"participant_id"`
	Username      string `json:"username"`
	Points        int64  `json:"points"`
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{DB: db}
}

// GetLeaderboard ranks participants by points. The all_time filter reads the
// ledger totals directly; weekly and monthly sum the approved check-ins since
// the cutoff. An optional venueId restricts the ranking to one venue's
// check-ins.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query.TimeFilter == "" {
		query.TimeFilter = "all_time"
	}

	var base *gorm.DB
	if query.TimeFilter == "all_time" && query.VenueID == 0 {
		// The ledger total is the authoritative all-time figure.
		base = lc.DB.Model(&models.Participant{}).
			Select("participants.id AS participant_id, participants.username, participants.total_points AS points")
	} else {
		// Period and venue predicates belong in the join condition: in a
		// WHERE clause they would turn the left join inner and drop
		// zero-activity participants from the board.
		join, args := leaderboardJoin(query.TimeFilter, query.VenueID, time.Now())
		base = lc.DB.Model(&models.Participant{}).
			Select("participants.id AS participant_id, participants.username, COALESCE(SUM(check_in_records.awarded_points), 0) AS points").
			Joins(join, args...).
			Group("participants.id")
	}

	var total int64
	if err := lc.DB.Model(&models.Participant{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	offset := (query.Page - 1) * query.PageSize
	var entries []LeaderboardEntry
	if err := base.Order("points DESC, participant_id ASC").
		Limit(query.PageSize).
		Offset(offset).
		Scan(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	for i := range entries {
		entries[i].Rank = offset + i + 1
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"pagination": gin.H{
			"page":       query.Page,
			"pageSize":   query.PageSize,
			"totalItems": total,
			"totalPages": int(math.Ceil(float64(total) / float64(query.PageSize))),
		},
	})
}

// leaderboardJoin builds the check-in join for filtered rankings. Every
// participant stays in the result; the filters only decide which approved
// check-ins count toward their points.
func leaderboardJoin(filter string, venueID uint, now time.Time) (string, []interface{}) {
	join := "LEFT JOIN check_in_records ON check_in_records.participant_id = participants.id AND check_in_records.outcome = ?"
	args := []interface{}{models.CheckInApproved}

	if cutoff, ok := timeFilterCutoff(filter, now); ok {
		join += " AND check_in_records.created_at >= ?"
		args = append(args, cutoff)
	}
	if venueID != 0 {
		join += " AND check_in_records.venue_id = ?"
		args = append(args, venueID)
	}
	return join, args
}

func timeFilterCutoff(filter string, now time.Time) (time.Time, bool) {
	switch filter {
	case "weekly":
		return now.AddDate(0, 0, -7), true
	case "monthly":
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}
