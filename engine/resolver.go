package engine

import (
	"context"
	"sort"
	"time"

	"github.com/gatherpoint/checkin-go/geo"
	"github.com/gatherpoint/checkin-go/models"
)

// EventResolver picks the single applicable event at a venue for a given
// instant.
type EventResolver struct {
	Events        EventRepository
	Participation ParticipationRepository
}

func NewEventResolver(events EventRepository, participation ParticipationRepository) *EventResolver {
	return &EventResolver{Events: events, Participation: participation}
}

// Resolve collects the venue's events scheduled on the venue-local day of
// now, keeps those whose check-in window contains now, and disambiguates:
// an explicit preferredEventID in the candidate set wins; otherwise the set is
// narrowed to events the participant is confirmed for or organizes; if more
// than one candidate still remains, the one whose start is closest to now is
// chosen, ties broken by lowest event id. The closest-start pick is a
// best-effort heuristic for overlapping events, not a guarantee.
func (r *EventResolver) Resolve(ctx context.Context, venue *models.Venue, now time.Time, participantID uint, preferredEventID *uint) (*models.Event, error) {
	dayStart, dayEnd := venue.DayBounds(now)
	events, err := r.Events.ListVenueEventsBetween(ctx, venue.ID, dayStart, dayEnd)
	if err != nil {
		return nil, rejectInternal("listing venue events", err)
	}

	var candidates []models.Event
	for _, e := range events {
		if geo.WindowContains(now, e.StartsAt, venue.LeadMinutes, venue.GraceMinutes) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, reject(ReasonNoActiveEvent, "no event at this venue has a check-in window containing the current time")
	}

	if preferredEventID != nil {
		for i := range candidates {
			if candidates[i].ID == *preferredEventID {
				return &candidates[i], nil
			}
		}
	}

	if participantID != 0 {
		narrowed, err := r.narrowToParticipant(ctx, participantID, candidates)
		if err != nil {
			return nil, err
		}
		if len(narrowed) == 0 {
			return nil, reject(ReasonNotEligible, "participant has no confirmed or organizer relationship to any active event")
		}
		candidates = narrowed
	}

	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := absDuration(candidates[i].StartsAt.Sub(now))
		dj := absDuration(candidates[j].StartsAt.Sub(now))
		if di != dj {
			return di < dj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return &candidates[0], nil
}

func (r *EventResolver) narrowToParticipant(ctx context.Context, participantID uint, candidates []models.Event) ([]models.Event, error) {
	var narrowed []models.Event
	for _, e := range candidates {
		if e.OrganizerID == participantID {
			narrowed = append(narrowed, e)
			continue
		}
		record, err := r.Participation.GetParticipation(ctx, participantID, e.ID)
		if err != nil {
			return nil, rejectInternal("loading participation record", err)
		}
		if record != nil && record.Status.CanCheckIn() {
			narrowed = append(narrowed, e)
		}
	}
	return narrowed, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
