package models

import "time"

// DailyCodeEmission is the single access code issued for a venue on one
// calendar day. The points value is snapshotted from the venue at creation
// time; later venue edits never change an already-issued day. Rows are never
// deleted and never mutated except for Active flipping to false on manual
// revocation.
type DailyCodeEmission struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	VenueID uint `gorm:"not null;uniqueIndex:idx_emissions_venue_day" json:"venue_id"`
	// CodeDate is the venue-local calendar day, YYYY-MM-DD.
	CodeDate         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_emissions_venue_day;uniqueIndex:idx_emissions_code_day" json:"code_date"`
	Code             string    `gorm:"type:char(6);not null;uniqueIndex:idx_emissions_code_day" json:"code"`
	PointsPerCheckIn int       `gorm:"not null" json:"points_per_check_in"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (DailyCodeEmission) TableName() string {
	return "daily_code_emissions"
}
