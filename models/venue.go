package models

import (
	"time"

	"github.com/lib/pq"
)

// Venue is owned by venue-management; this engine only reads it.
type Venue struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Address          string         `json:"address"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	Latitude         float64        `gorm:"not null;type:decimal(10,8)" json:"latitude"`
	Longitude        float64        `gorm:"not null;type:decimal(11,8)" json:"longitude"`
	RadiusMeters     float64        `gorm:"not null;default:100" json:"radius_meters"`
	LeadMinutes      int            `gorm:"not null;default:30" json:"lead_minutes"`
	GraceMinutes     int            `gorm:"not null;default:60" json:"grace_minutes"`
	UTCOffsetMinutes int            `gorm:"not null;default:0" json:"utc_offset_minutes"`
	PointsPerCheckIn int            `gorm:"not null;default:10" json:"points_per_check_in"`
	OwnerID          uint           `gorm:"not null;index" json:"owner_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// LocalDay returns the calendar date of t in the venue's fixed local offset,
// formatted as YYYY-MM-DD. Daily codes are keyed by this value.
func (v *Venue) LocalDay(t time.Time) string {
	zone := time.FixedZone("venue", v.UTCOffsetMinutes*60)
	return t.In(zone).Format("2006-01-02")
}

// DayBounds returns the [start, end) UTC instants of the venue-local calendar
// day containing t.
func (v *Venue) DayBounds(t time.Time) (time.Time, time.Time) {
	zone := time.FixedZone("venue", v.UTCOffsetMinutes*60)
	local := t.In(zone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
