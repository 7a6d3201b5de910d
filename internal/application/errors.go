package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/scheduler"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness constraint rejects a mutation.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when a disabled account attempts to authenticate.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrOrderNotPayable is returned when payment is confirmed for an order
	// that is not awaiting payment.
	ErrOrderNotPayable = errors.New("application: order is not awaiting payment")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// ConflictError reports that a class mutation would overlap an existing
// occurrence in the same room. It carries the clashing slot so the caller can
// point the user at the occupied time range.
type ConflictError struct {
	ClassID   string
	RoomID    string
	Date      time.Time
	StartTime string
	EndTime   string
	Virtual   bool
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("scheduling conflict with class %s on %s between %s and %s",
		c.ClassID, c.Date.Format("2006-01-02"), c.StartTime, c.EndTime)
}

func conflictError(conflict scheduler.Conflict) *ConflictError {
	return &ConflictError{
		ClassID:   conflict.ClassID,
		RoomID:    conflict.RoomID,
		Date:      conflict.Date,
		StartTime: scheduler.FormatClock(conflict.StartMinute),
		EndTime:   scheduler.FormatClock(conflict.EndMinute),
		Virtual:   conflict.Virtual,
	}
}

// mapRepoError translates storage sentinels into the application taxonomy
// for services without entity specific constraint handling.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
