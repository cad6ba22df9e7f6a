package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/gatherpoint/checkin-go/engine"
	"github.com/gatherpoint/checkin-go/models"
)

func TestEligibilityConfirmedPasses(t *testing.T) {
	store := newMemStore()
	confirm(store, 1, 10)
	gate := engine.NewEligibilityGate(store)

	event := &models.Event{ID: 10, VenueID: uintPtr(1), OrganizerID: 9}
	if err := gate.Check(context.Background(), 1, event, 1); err != nil {
		t.Errorf("confirmed participant rejected: %v", err)
	}
}

func TestEligibilityOrganizerPasses(t *testing.T) {
	store := newMemStore()
	gate := engine.NewEligibilityGate(store)

	event := &models.Event{ID: 10, VenueID: uintPtr(1), OrganizerID: 7}
	if err := gate.Check(context.Background(), 7, event, 1); err != nil {
		t.Errorf("organizer rejected: %v", err)
	}
}

func TestEligibilityPendingRejected(t *testing.T) {
	store := newMemStore()
	store.participation[[2]uint{1, 10}] = &models.ParticipationRecord{
		ParticipantID: 1, EventID: 10, Status: models.ParticipationPending,
	}
	gate := engine.NewEligibilityGate(store)

	event := &models.Event{ID: 10, VenueID: uintPtr(1), OrganizerID: 9}
	err := gate.Check(context.Background(), 1, event, 1)
	assertReason(t, err, engine.ReasonNotEligible)
}

func TestEligibilityNoRecordRejected(t *testing.T) {
	store := newMemStore()
	gate := engine.NewEligibilityGate(store)

	event := &models.Event{ID: 10, VenueID: uintPtr(1), OrganizerID: 9}
	err := gate.Check(context.Background(), 1, event, 1)
	assertReason(t, err, engine.ReasonNotEligible)
}

func TestEligibilityVenueMismatchIsStructural(t *testing.T) {
	store := newMemStore()
	confirm(store, 1, 10)
	gate := engine.NewEligibilityGate(store)

	event := &models.Event{ID: 10, VenueID: uintPtr(2), OrganizerID: 9, StartsAt: time.Now()}
	err := gate.Check(context.Background(), 1, event, 1)
	assertReason(t, err, engine.ReasonStructuralMismatch)

	event.VenueID = nil
	err = gate.Check(context.Background(), 1, event, 1)
	assertReason(t, err, engine.ReasonStructuralMismatch)
}
