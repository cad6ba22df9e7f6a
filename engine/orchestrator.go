package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gatherpoint/checkin-go/geo"
	"github.com/gatherpoint/checkin-go/metrics"
	"github.com/gatherpoint/checkin-go/models"
)

// CheckInEventsQueue is the outbound queue approved check-ins are published
// to for reporting and rewards consumers.
const CheckInEventsQueue = "checkin_events"

// SubmitRequest is one validation attempt. Code may come from a typed entry
// or a scanned payload; the payload is the code. Coordinate is nil when the
// client sent none.
type SubmitRequest struct {
	Code             string
	ParticipantID    uint
	Coordinate       *geo.Coordinate
	PreferredEventID *uint
}

// Result is a committed check-in.
type Result struct {
	CheckInID      uuid.UUID `json:"check_in_id"`
	EventID        uint      `json:"event_id"`
	VenueID        uint      `json:"venue_id"`
	AwardedPoints  int       `json:"awarded_points"`
	Multiplier     int       `json:"multiplier"`
	DistanceMeters float64   `json:"distance_meters"`
}

// CheckInEvent is the payload published for each approved check-in.
type CheckInEvent struct {
	Event          string    `json:"event"`
	CheckInID      uuid.UUID `json:"check_in_id"`
	ParticipantID  uint      `json:"participant_id"`
	EventID        uint      `json:"event_id"`
	VenueID        uint      `json:"venue_id"`
	AwardedPoints  int       `json:"awarded_points"`
	ApprovedAt     string    `json:"approved_at"`
	DistanceMeters float64   `json:"distance_meters"`
}

// Orchestrator sequences the pipeline: code → event → eligibility → geofence
// → commit. Every call runs the pipeline exactly once and returns either a
// Result or a *Rejection; nothing is retried internally.
type Orchestrator struct {
	Registry     *CodeRegistry
	Resolver     *EventResolver
	Gate         *EligibilityGate
	Ledger       *Ledger
	Participants ParticipantRepository
	CheckIns     CheckInRepository
	Queue        EventQueue // optional

	// Now is stubbed in tests; defaults to time.Now.
	Now func() time.Time
}

func NewOrchestrator(registry *CodeRegistry, resolver *EventResolver, gate *EligibilityGate, ledger *Ledger, participants ParticipantRepository, checkIns CheckInRepository, queue EventQueue) *Orchestrator {
	return &Orchestrator{
		Registry:     registry,
		Resolver:     resolver,
		Gate:         gate,
		Ledger:       ledger,
		Participants: participants,
		CheckIns:     checkIns,
		Queue:        queue,
		Now:          time.Now,
	}
}

// Validate runs one full validation attempt.
func (o *Orchestrator) Validate(ctx context.Context, req SubmitRequest) (*Result, error) {
	now := o.Now()

	emission, venue, err := o.Registry.ResolveCode(ctx, req.Code, now)
	if err != nil {
		return nil, o.reportRejection(err)
	}

	event, err := o.Resolver.Resolve(ctx, venue, now, req.ParticipantID, req.PreferredEventID)
	if err != nil {
		return nil, o.reportRejection(err)
	}

	if err := o.Gate.Check(ctx, req.ParticipantID, event, venue.ID); err != nil {
		o.recordDenied(ctx, req, event, venue, emission, err)
		return nil, o.reportRejection(err)
	}

	participant, err := o.Participants.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		return nil, o.reportRejection(rejectInternal("loading participant", err))
	}
	if participant == nil {
		rej := reject(ReasonNotEligible, "unknown participant")
		o.recordDenied(ctx, req, event, venue, emission, rej)
		return nil, o.reportRejection(rej)
	}

	commit, err := o.Ledger.ValidateAndCommit(ctx, participant, event, venue, emission, req.Coordinate)
	if err != nil {
		o.recordDenied(ctx, req, event, venue, emission, err)
		return nil, o.reportRejection(err)
	}

	metrics.ValidationsTotal.WithLabelValues("approved").Inc()
	metrics.DistanceMeters.Observe(commit.DistanceMeters)
	metrics.PointsAwarded.Add(float64(commit.AwardedPoints))

	o.publishApproved(commit, venue.ID, now)

	return &Result{
		CheckInID:      commit.Record.PublicID,
		EventID:        event.ID,
		VenueID:        venue.ID,
		AwardedPoints:  commit.AwardedPoints,
		Multiplier:     commit.Multiplier,
		DistanceMeters: commit.DistanceMeters,
	}, nil
}

// recordDenied appends the audit row for a rejected attempt. Attempts that
// fail before an event is resolved have nothing to attach the row to and are
// not recorded. Duplicate rejections are recorded too: the prior approved row
// stays untouched and the attempt itself is part of the trail.
func (o *Orchestrator) recordDenied(ctx context.Context, req SubmitRequest, event *models.Event, venue *models.Venue, emission *models.DailyCodeEmission, cause error) {
	rej, ok := AsRejection(cause)
	if !ok || rej.Reason == ReasonInternal {
		// Storage failures must not trigger further writes.
		return
	}

	record := &models.CheckInRecord{
		PublicID:      uuid.New(),
		ParticipantID: req.ParticipantID,
		EventID:       event.ID,
		VenueID:       venue.ID,
		EmissionID:    emission.ID,
		Outcome:       models.CheckInDenied,
		DenialReason:  string(rej.Reason),
	}
	if req.Coordinate != nil && req.Coordinate.Valid() {
		record.Latitude = &req.Coordinate.Latitude
		record.Longitude = &req.Coordinate.Longitude
	}
	if rej.DistanceMeters != nil {
		record.DistanceMeters = rej.DistanceMeters
		metrics.DistanceMeters.Observe(*rej.DistanceMeters)
	}

	if err := o.CheckIns.SaveDenied(ctx, record); err != nil {
		log.Printf("Failed to save denied check-in audit row for participant %d event %d: %v", req.ParticipantID, event.ID, err)
	}
}

func (o *Orchestrator) reportRejection(err error) error {
	if rej, ok := AsRejection(err); ok {
		if rej.Reason == ReasonInternal || rej.Reason == ReasonStructuralMismatch {
			log.Printf("Validation failed: %v", rej)
		}
		metrics.ValidationsTotal.WithLabelValues(string(rej.Reason)).Inc()
		return rej
	}
	metrics.ValidationsTotal.WithLabelValues(string(ReasonInternal)).Inc()
	return rejectInternal("validation failed", err)
}

// publishApproved hands the approved check-in to the outbound queue on a
// detached context so a slow broker cannot stall or fail the response.
func (o *Orchestrator) publishApproved(commit *CommitResult, venueID uint, now time.Time) {
	if o.Queue == nil {
		return
	}
	payload := CheckInEvent{
		Event:          "checkin_approved",
		CheckInID:      commit.Record.PublicID,
		ParticipantID:  commit.Record.ParticipantID,
		EventID:        commit.Record.EventID,
		VenueID:        venueID,
		AwardedPoints:  commit.AwardedPoints,
		ApprovedAt:     now.UTC().Format(time.RFC3339),
		DistanceMeters: commit.DistanceMeters,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.Queue.Enqueue(ctx, CheckInEventsQueue, payload); err != nil {
			log.Printf("Failed to enqueue check-in event %s: %v", payload.CheckInID, err)
		}
	}()
}
