package models

import (
	"time"

	"github.com/google/uuid"
)

type CheckInOutcome string

const (
	CheckInApproved CheckInOutcome = "approved"
	CheckInDenied   CheckInOutcome = "denied"
)

// CheckInRecord is the append-only audit row written once per validation
// attempt, approved or denied. Rows are never updated or deleted.
//
// At most one approved row may exist per (participant, event). The real
// guarantee is the partial unique index created in config.InitDB; the
// application-level existence check is only a fast path.
type CheckInRecord struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	PublicID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"id"`
	ParticipantID  uint           `gorm:"not null;index:idx_check_ins_participant_event" json:"participant_id"`
	EventID        uint           `gorm:"not null;index:idx_check_ins_participant_event" json:"event_id"`
	VenueID        uint           `gorm:"not null;index" json:"venue_id"`
	EmissionID     uint           `gorm:"not null" json:"emission_id"`
	Latitude       *float64       `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude      *float64       `gorm:"type:decimal(11,8)" json:"longitude"`
	DistanceMeters *float64       `json:"distance_meters"`
	Outcome        CheckInOutcome `gorm:"type:varchar(10);not null" json:"outcome"`
	DenialReason   string         `gorm:"type:varchar(32)" json:"denial_reason,omitempty"`
	AwardedPoints  int            `gorm:"not null;default:0" json:"awarded_points"`
	Multiplier     int            `gorm:"not null;default:1" json:"multiplier"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (CheckInRecord) TableName() string {
	return "check_in_records"
}
