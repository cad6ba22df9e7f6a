package engine_test

import (
	"context"
	"sync"
	"time"

	"github.com/gatherpoint/checkin-go/engine"
	"github.com/gatherpoint/checkin-go/models"
)

// memStore is a map-backed implementation of the engine's repository
// interfaces with the same conflict semantics as the real storage layer.
type memStore struct {
	mu sync.Mutex

	venues        map[uint]*models.Venue
	participants  map[uint]*models.Participant
	events        []models.Event
	participation map[[2]uint]*models.ParticipationRecord

	emissions      []*models.DailyCodeEmission
	nextEmissionID uint

	checkIns      []*models.CheckInRecord
	nextCheckInID uint

	// commitErrs, when non-empty, is popped on each CommitApproved call
	// before normal processing.
	commitErrs []error
	// findApprovedMisses forces that many FindApproved calls to miss,
	// simulating the read racing an in-flight insert.
	findApprovedMisses int
	// createEmissionErrs, when non-empty, is popped on each CreateEmission
	// call before normal processing.
	createEmissionErrs []error
	// findEmissionMisses forces that many FindEmission calls to miss,
	// simulating the lookup racing an in-flight insert.
	findEmissionMisses int
}

func newMemStore() *memStore {
	return &memStore{
		venues:        make(map[uint]*models.Venue),
		participants:  make(map[uint]*models.Participant),
		participation: make(map[[2]uint]*models.ParticipationRecord),
	}
}

var _ engine.VenueRepository = (*memStore)(nil)
var _ engine.ParticipantRepository = (*memStore)(nil)
var _ engine.EventRepository = (*memStore)(nil)
var _ engine.ParticipationRepository = (*memStore)(nil)
var _ engine.EmissionRepository = (*memStore)(nil)
var _ engine.CheckInRepository = (*memStore)(nil)

func (m *memStore) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.venues[id]; ok {
		copy := *v
		return &copy, nil
	}
	return nil, nil
}

func (m *memStore) GetParticipant(ctx context.Context, id uint) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.participants[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (m *memStore) ListVenueEventsBetween(ctx context.Context, venueID uint, from, to time.Time) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Event
	for _, e := range m.events {
		if e.VenueID != nil && *e.VenueID == venueID &&
			!e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetParticipation(ctx context.Context, participantID, eventID uint) (*models.ParticipationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.participation[[2]uint{participantID, eventID}]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, nil
}

func (m *memStore) FindEmission(ctx context.Context, venueID uint, day string) (*models.DailyCodeEmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findEmissionMisses > 0 {
		m.findEmissionMisses--
		return nil, nil
	}
	for _, e := range m.emissions {
		if e.VenueID == venueID && e.CodeDate == day {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindEmissionByCode(ctx context.Context, code, day string) (*models.DailyCodeEmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.emissions {
		if e.Code == code && e.CodeDate == day {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateEmission(ctx context.Context, emission *models.DailyCodeEmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.createEmissionErrs) > 0 {
		err := m.createEmissionErrs[0]
		m.createEmissionErrs = m.createEmissionErrs[1:]
		return err
	}
	for _, e := range m.emissions {
		if e.VenueID == emission.VenueID && e.CodeDate == emission.CodeDate {
			return engine.ErrConflict
		}
		if e.Code == emission.Code && e.CodeDate == emission.CodeDate {
			return engine.ErrConflict
		}
	}
	m.nextEmissionID++
	emission.ID = m.nextEmissionID
	copy := *emission
	m.emissions = append(m.emissions, &copy)
	return nil
}

func (m *memStore) RevokeEmission(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.emissions {
		if e.ID == id {
			e.Active = false
			return nil
		}
	}
	return nil
}

func (m *memStore) FindApproved(ctx context.Context, participantID, eventID uint) (*models.CheckInRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findApprovedMisses > 0 {
		m.findApprovedMisses--
		return nil, nil
	}
	return m.findApprovedLocked(participantID, eventID), nil
}

func (m *memStore) findApprovedLocked(participantID, eventID uint) *models.CheckInRecord {
	for _, r := range m.checkIns {
		if r.ParticipantID == participantID && r.EventID == eventID && r.Outcome == models.CheckInApproved {
			copy := *r
			return &copy
		}
	}
	return nil
}

func (m *memStore) SaveDenied(ctx context.Context, record *models.CheckInRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCheckInID++
	record.ID = m.nextCheckInID
	record.CreatedAt = time.Now()
	copy := *record
	m.checkIns = append(m.checkIns, &copy)
	return nil
}

func (m *memStore) CommitApproved(ctx context.Context, record *models.CheckInRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.commitErrs) > 0 {
		err := m.commitErrs[0]
		m.commitErrs = m.commitErrs[1:]
		return err
	}

	if m.findApprovedLocked(record.ParticipantID, record.EventID) != nil {
		return engine.ErrConflict
	}
	m.nextCheckInID++
	record.ID = m.nextCheckInID
	record.CreatedAt = time.Now()
	copy := *record
	m.checkIns = append(m.checkIns, &copy)

	if p, ok := m.participants[record.ParticipantID]; ok {
		p.TotalPoints += int64(record.AwardedPoints)
	}
	return nil
}

func (m *memStore) deniedReasons(participantID uint) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.checkIns {
		if r.ParticipantID == participantID && r.Outcome == models.CheckInDenied {
			out = append(out, r.DenialReason)
		}
	}
	return out
}

// memQueue records published payloads.
type memQueue struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (q *memQueue) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *memQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

// memCache is a map-backed EmissionCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*models.DailyCodeEmission
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*models.DailyCodeEmission)}
}

func (c *memCache) GetEmission(ctx context.Context, code, day string) (*models.DailyCodeEmission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[day+":"+code]; ok {
		c.hits++
		copy := *e
		return &copy, nil
	}
	return nil, nil
}

func (c *memCache) SetEmission(ctx context.Context, emission *models.DailyCodeEmission) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy := *emission
	c.entries[emission.CodeDate+":"+emission.Code] = &copy
	return nil
}

func (c *memCache) InvalidateEmission(ctx context.Context, code, day string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, day+":"+code)
	return nil
}
