package models

import "time"

type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationRejected  ParticipationStatus = "rejected"
	ParticipationOrganizer ParticipationStatus = "organizer"
)

// CanCheckIn reports whether the status admits a check-in. Only confirmed
// attendees and organizers pass the eligibility gate.
func (s ParticipationStatus) CanCheckIn() bool {
	return s == ParticipationConfirmed || s == ParticipationOrganizer
}

// ParticipationRecord is mutated by scheduling workflows; the engine reads it.
type ParticipationRecord struct {
	ID            uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	ParticipantID uint                `gorm:"not null;uniqueIndex:idx_participation_participant_event" json:"participant_id"`
	EventID       uint                `gorm:"not null;uniqueIndex:idx_participation_participant_event" json:"event_id"`
	Status        ParticipationStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (ParticipationRecord) TableName() string {
	return "participation_records"
}
