package booking

import (
    "errors"
    "fmt"
    "time"
)

var (
    // ErrBookingNotFound is returned when a booking id does not exist.
    ErrBookingNotFound = errors.New("booking not found")
    // ErrForbidden is returned when a player acts on a booking that is
    // not theirs.
    ErrForbidden = errors.New("forbidden")
)

// InputError collects per-field validation failures for a booking
// submission.  It is reported as a single error so the caller can show
// every problem at once instead of one per round trip.
type InputError struct {
    fields map[string][]string
}

func newInputError() *InputError {
    return &InputError{fields: make(map[string][]string)}
}

// IsInputError unwraps err into an *InputError, or returns nil when
// err is not one.
func IsInputError(err error) *InputError {
    var inputErr *InputError
    if errors.As(err, &inputErr) {
        return inputErr
    }
    return nil
}

func (e *InputError) add(field, msg string) {
    e.fields[field] = append(e.fields[field], msg)
}

func (e *InputError) count() int { return len(e.fields) }

func (e *InputError) Error() string {
    return fmt.Sprintf("invalid input: %+v", e.fields)
}

// Fields exposes the per-field messages for rendering.
func (e *InputError) Fields() map[string][]string { return e.fields }

// ConflictError reports that a requested window overlaps an existing
// pending or confirmed booking.  BookingID identifies the blocking
// booking so the caller can re-offer availability with context.
type ConflictError struct {
    BookingID uint64
    Start     time.Time
    End       time.Time
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("window %s–%s conflicts with booking %d",
        e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.BookingID)
}

// IsConflictError unwraps err into a *ConflictError, or nil.
func IsConflictError(err error) *ConflictError {
    var conflictErr *ConflictError
    if errors.As(err, &conflictErr) {
        return conflictErr
    }
    return nil
}

// TransitionError reports a refused booking state transition, such as
// confirming a booking that has no completed payment.  These indicate
// a caller ordering bug, not user error, and are never retried.
type TransitionError struct {
    BookingID uint64
    From      string
    Reason    string
}

func (e *TransitionError) Error() string {
    return fmt.Sprintf("cannot transition booking %d from %s: %s", e.BookingID, e.From, e.Reason)
}

// IsTransitionError unwraps err into a *TransitionError, or nil.
func IsTransitionError(err error) *TransitionError {
    var transitionErr *TransitionError
    if errors.As(err, &transitionErr) {
        return transitionErr
    }
    return nil
}
