package models

import "time"

// Event is owned by scheduling. Events without a venue never reach the engine:
// every query path joins through VenueID.
type Event struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	VenueID     *uint     `gorm:"index" json:"venue_id"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"`
	OrganizerID uint      `gorm:"not null;index" json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
