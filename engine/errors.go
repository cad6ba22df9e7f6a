package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Reason is the terminal, user-facing outcome of a failed validation. None of
// these are retried automatically by the engine.
type Reason string

const (
	ReasonCodeInvalidOrExpired Reason = "CODE_INVALID_OR_EXPIRED"
	ReasonNoActiveEvent        Reason = "NO_ACTIVE_EVENT"
	ReasonNotEligible          Reason = "NOT_ELIGIBLE"
	ReasonMissingLocation      Reason = "MISSING_LOCATION"
	ReasonOutOfRange           Reason = "OUT_OF_RANGE"
	ReasonDuplicate            Reason = "DUPLICATE"
	ReasonStructuralMismatch   Reason = "STRUCTURAL_MISMATCH"
	ReasonInternal             Reason = "ERROR_INTERNAL"
)

// ErrConflict is returned by repositories when a write loses to a storage
// uniqueness constraint. The engine translates it into either an idempotent
// find-or-create retry or a DUPLICATE rejection.
var ErrConflict = errors.New("storage conflict")

// ErrVenueNotFound is returned by the code registry when the referenced venue
// does not exist.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEmissionNotFound is returned when revoking a day that has no emission.
var ErrEmissionNotFound = errors.New("no emission for that venue and day")

// Rejection is a terminal validation outcome. It carries the taxonomy reason
// plus the extra fields some reasons include in the response: the computed
// distance for OUT_OF_RANGE and the prior record's id for DUPLICATE.
type Rejection struct {
	Reason         Reason
	Message        string
	DistanceMeters *float64
	PriorCheckInID *uuid.UUID
	Err            error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s: %v", r.Reason, r.Message, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(reason Reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}

func rejectInternal(message string, err error) *Rejection {
	return &Rejection{Reason: ReasonInternal, Message: message, Err: err}
}

// AsRejection unwraps err into a *Rejection if one is in its chain.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
