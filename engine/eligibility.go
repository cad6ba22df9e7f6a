package engine

import (
	"context"
	"log"

	"github.com/gatherpoint/checkin-go/models"
)

// EligibilityGate confirms the requesting participant is authorized for the
// resolved event.
type EligibilityGate struct {
	Participation ParticipationRepository
}

func NewEligibilityGate(participation ParticipationRepository) *EligibilityGate {
	return &EligibilityGate{Participation: participation}
}

// Check passes when the participant holds a confirmed participation record
// for the event or is its organizer. It also verifies the event belongs to
// the resolved venue; a mismatch means corrupted data and is reported as
// fatal, never retried.
func (g *EligibilityGate) Check(ctx context.Context, participantID uint, event *models.Event, venueID uint) error {
	if event.VenueID == nil || *event.VenueID != venueID {
		log.Printf("FATAL data integrity: event %d is not assigned to venue %d", event.ID, venueID)
		return reject(ReasonStructuralMismatch, "resolved event does not belong to the emission's venue")
	}

	if event.OrganizerID == participantID {
		return nil
	}

	record, err := g.Participation.GetParticipation(ctx, participantID, event.ID)
	if err != nil {
		return rejectInternal("loading participation record", err)
	}
	if record == nil || !record.Status.CanCheckIn() {
		return reject(ReasonNotEligible, "participant is not confirmed for this event")
	}
	return nil
}
