package engine

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gatherpoint/checkin-go/metrics"
	"github.com/gatherpoint/checkin-go/models"
)

// codeAlphabet omits the visually ambiguous glyphs I, O, 0 and 1. Its length
// is 32, so a modulo draw from random bytes is unbiased.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// maxCodeAttempts bounds the collision retry loop. With 32^6 possible codes a
// same-day collision is already rare; ten retries is generous.
const maxCodeAttempts = 10

// CodeRegistry manages the one rotating access code per (venue, calendar day).
// Codes are unique per day across all venues, so a code plus today's date
// fully determines the emission.
type CodeRegistry struct {
	Venues    VenueRepository
	Emissions EmissionRepository
	Cache     EmissionCache // optional
}

func NewCodeRegistry(venues VenueRepository, emissions EmissionRepository, cache EmissionCache) *CodeRegistry {
	return &CodeRegistry{Venues: venues, Emissions: emissions, Cache: cache}
}

// GetOrCreateEmission returns the venue's emission for its current local day,
// creating it on first request. The venue's points value is snapshotted into
// the new row; later venue edits do not touch an issued day. Safe under
// concurrent invocation: a lost insert race re-reads the winner's row, so two
// first-requests of the day can never mint two codes.
func (r *CodeRegistry) GetOrCreateEmission(ctx context.Context, venueID uint, now time.Time) (*models.DailyCodeEmission, error) {
	venue, err := r.Venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("loading venue %d: %w", venueID, err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	day := venue.LocalDay(now)

	existing, err := r.Emissions.FindEmission(ctx, venueID, day)
	if err != nil {
		return nil, fmt.Errorf("looking up emission for venue %d on %s: %w", venueID, day, err)
	}
	if existing != nil {
		return existing, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return nil, fmt.Errorf("generating code: %w", err)
		}

		emission := &models.DailyCodeEmission{
			VenueID:          venueID,
			CodeDate:         day,
			Code:             code,
			PointsPerCheckIn: venue.PointsPerCheckIn,
			Active:           true,
		}

		err = r.Emissions.CreateEmission(ctx, emission)
		if err == nil {
			metrics.DailyCodesIssued.Inc()
			return emission, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("creating emission for venue %d on %s: %w", venueID, day, err)
		}

		// Conflict: either another request won the (venue, day) race, in
		// which case their row is the emission, or the drawn code is already
		// taken by some venue today and we redraw.
		winner, ferr := r.Emissions.FindEmission(ctx, venueID, day)
		if ferr != nil {
			return nil, fmt.Errorf("re-reading emission after conflict: %w", ferr)
		}
		if winner != nil {
			return winner, nil
		}
	}

	return nil, fmt.Errorf("could not allocate a unique code for venue %d on %s after %d attempts", venueID, day, maxCodeAttempts)
}

// ResolveCode maps a user-entered code to today's active emission and its
// venue. "Today" is the venue's local day; since the venue is only known after
// the code matches, the lookup probes the UTC day and its neighbors, then
// verifies the match against the owning venue's own calendar.
func (r *CodeRegistry) ResolveCode(ctx context.Context, code string, now time.Time) (*models.DailyCodeEmission, *models.Venue, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != codeLength {
		return nil, nil, reject(ReasonCodeInvalidOrExpired, "code does not resolve to an active emission for today")
	}

	utcDay := now.UTC().Format("2006-01-02")
	days := []string{
		utcDay,
		now.UTC().AddDate(0, 0, 1).Format("2006-01-02"),
		now.UTC().AddDate(0, 0, -1).Format("2006-01-02"),
	}

	for _, day := range days {
		emission, err := r.lookupEmission(ctx, code, day)
		if err != nil {
			return nil, nil, rejectInternal("resolving code", err)
		}
		if emission == nil || !emission.Active {
			continue
		}

		venue, err := r.Venues.GetVenue(ctx, emission.VenueID)
		if err != nil {
			return nil, nil, rejectInternal("loading emission venue", err)
		}
		if venue == nil {
			log.Printf("emission %d references missing venue %d", emission.ID, emission.VenueID)
			continue
		}
		if emission.CodeDate != venue.LocalDay(now) {
			// A neighbor-day row whose venue-local day has already rolled
			// over (or not yet arrived) is expired, not a match.
			continue
		}
		return emission, venue, nil
	}

	return nil, nil, reject(ReasonCodeInvalidOrExpired, "code does not resolve to an active emission for today")
}

// Revoke flips the day's emission inactive and drops it from the cache. The
// row itself is never deleted.
func (r *CodeRegistry) Revoke(ctx context.Context, venueID uint, now time.Time) (*models.DailyCodeEmission, error) {
	venue, err := r.Venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("loading venue %d: %w", venueID, err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	day := venue.LocalDay(now)

	emission, err := r.Emissions.FindEmission(ctx, venueID, day)
	if err != nil {
		return nil, fmt.Errorf("looking up emission for venue %d on %s: %w", venueID, day, err)
	}
	if emission == nil {
		return nil, ErrEmissionNotFound
	}

	if err := r.Emissions.RevokeEmission(ctx, emission.ID); err != nil {
		return nil, fmt.Errorf("revoking emission %d: %w", emission.ID, err)
	}
	emission.Active = false

	if r.Cache != nil {
		if err := r.Cache.InvalidateEmission(ctx, emission.Code, emission.CodeDate); err != nil {
			log.Printf("Failed to invalidate cached emission %s/%s: %v", emission.Code, emission.CodeDate, err)
		}
	}
	return emission, nil
}

// lookupEmission consults the cache first, falling back to the repository and
// populating the cache on a hit. Cache failures are ignored.
func (r *CodeRegistry) lookupEmission(ctx context.Context, code, day string) (*models.DailyCodeEmission, error) {
	if r.Cache != nil {
		cached, err := r.Cache.GetEmission(ctx, code, day)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	emission, err := r.Emissions.FindEmissionByCode(ctx, code, day)
	if err != nil {
		return nil, err
	}
	if emission != nil && r.Cache != nil {
		if err := r.Cache.SetEmission(ctx, emission); err != nil {
			log.Printf("Failed to cache emission %s/%s: %v", code, day, err)
		}
	}
	return emission, nil
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
