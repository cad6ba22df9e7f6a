package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gatherpoint/checkin-go/geo"
	"github.com/gatherpoint/checkin-go/models"
)

// Ledger enforces one approved check-in per (participant, event), computes
// the awarded points and commits the record together with the score-ledger
// increment as one transaction.
type Ledger struct {
	CheckIns CheckInRepository
}

func NewLedger(checkIns CheckInRepository) *Ledger {
	return &Ledger{CheckIns: checkIns}
}

// CommitResult is the successful outcome of ValidateAndCommit.
type CommitResult struct {
	Record         *models.CheckInRecord
	AwardedPoints  int
	Multiplier     int
	DistanceMeters float64
}

// ValidateAndCommit runs the geofence check, the duplicate check and the
// atomic commit. The pre-insert duplicate lookup is only a fast path; the
// partial unique index behind CheckInRepository.CommitApproved is what
// actually guarantees exactly-once approval, and a lost race is translated
// into the same DUPLICATE outcome.
func (l *Ledger) ValidateAndCommit(ctx context.Context, participant *models.Participant, event *models.Event, venue *models.Venue, emission *models.DailyCodeEmission, coordinate *geo.Coordinate) (*CommitResult, error) {
	if coordinate == nil || !coordinate.Valid() {
		return nil, reject(ReasonMissingLocation, "coordinate is absent or unparsable")
	}

	distance := geo.DistanceMeters(*coordinate, geo.Coordinate{
		Latitude:  venue.Latitude,
		Longitude: venue.Longitude,
	})
	if distance > venue.RadiusMeters {
		rej := reject(ReasonOutOfRange, fmt.Sprintf("distance %.0fm exceeds the venue radius of %.0fm", distance, venue.RadiusMeters))
		rej.DistanceMeters = &distance
		return nil, rej
	}

	prior, err := l.CheckIns.FindApproved(ctx, participant.ID, event.ID)
	if err != nil {
		return nil, rejectInternal("checking for prior approved check-in", err)
	}
	if prior != nil {
		return nil, duplicateOf(prior)
	}

	multiplier := 1
	if participant.IsPremium && event.OrganizerID == participant.ID && venue.OwnerID == participant.ID {
		multiplier = 2
	}
	awarded := emission.PointsPerCheckIn * multiplier

	record := &models.CheckInRecord{
		PublicID:       uuid.New(),
		ParticipantID:  participant.ID,
		EventID:        event.ID,
		VenueID:        venue.ID,
		EmissionID:     emission.ID,
		Latitude:       &coordinate.Latitude,
		Longitude:      &coordinate.Longitude,
		DistanceMeters: &distance,
		Outcome:        models.CheckInApproved,
		AwardedPoints:  awarded,
		Multiplier:     multiplier,
	}

	if err := l.CheckIns.CommitApproved(ctx, record); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost the insert race: the constraint fired. Re-read the winner
			// so the response can reference it; retries stay idempotent.
			winner, ferr := l.CheckIns.FindApproved(ctx, participant.ID, event.ID)
			if ferr != nil || winner == nil {
				return nil, rejectInternal("reading prior approved check-in after conflict", ferr)
			}
			return nil, duplicateOf(winner)
		}
		return nil, rejectInternal("committing approved check-in", err)
	}

	return &CommitResult{
		Record:         record,
		AwardedPoints:  awarded,
		Multiplier:     multiplier,
		DistanceMeters: distance,
	}, nil
}

func duplicateOf(prior *models.CheckInRecord) *Rejection {
	rej := reject(ReasonDuplicate, "an approved check-in already exists for this participant and event")
	id := prior.PublicID
	rej.PriorCheckInID = &id
	return rej
}
