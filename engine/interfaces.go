package engine

import (
	"context"
	"time"

	"github.com/gatherpoint/checkin-go/models"
)

// Repository lookups return (nil, nil) when no row exists; errors are reserved
// for storage failures. Writes that lose a uniqueness race return ErrConflict.

type VenueRepository interface {
	GetVenue(ctx context.Context, id uint) (*models.Venue, error)
}

type ParticipantRepository interface {
	GetParticipant(ctx context.Context, id uint) (*models.Participant, error)
}

type EventRepository interface {
	// ListVenueEventsBetween returns events at the venue starting in [from, to).
	ListVenueEventsBetween(ctx context.Context, venueID uint, from, to time.Time) ([]models.Event, error)
}

type ParticipationRepository interface {
	GetParticipation(ctx context.Context, participantID, eventID uint) (*models.ParticipationRecord, error)
}

type EmissionRepository interface {
	FindEmission(ctx context.Context, venueID uint, day string) (*models.DailyCodeEmission, error)
	FindEmissionByCode(ctx context.Context, code, day string) (*models.DailyCodeEmission, error)
	CreateEmission(ctx context.Context, emission *models.DailyCodeEmission) error
	RevokeEmission(ctx context.Context, id uint) error
}

type CheckInRepository interface {
	FindApproved(ctx context.Context, participantID, eventID uint) (*models.CheckInRecord, error)
	SaveDenied(ctx context.Context, record *models.CheckInRecord) error
	// CommitApproved atomically inserts the approved record and increments the
	// participant's score ledger by record.AwardedPoints. Returns ErrConflict
	// when an approved record for (participant, event) already exists.
	CommitApproved(ctx context.Context, record *models.CheckInRecord) error
}

// EmissionCache is a best-effort read-through cache for resolved codes.
// Implementations may fail freely; callers fall back to the repository.
type EmissionCache interface {
	GetEmission(ctx context.Context, code, day string) (*models.DailyCodeEmission, error)
	SetEmission(ctx context.Context, emission *models.DailyCodeEmission) error
	InvalidateEmission(ctx context.Context, code, day string) error
}

// EventQueue publishes approved check-ins for downstream consumers
// (reporting, rewards). Publishing is best-effort and never fails a
// validation.
type EventQueue interface {
	Enqueue(ctx context.Context, queueName string, payload interface{}) error
}
