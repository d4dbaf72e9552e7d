package kernel

import (
	"fmt"

	"ordertracking/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies movements and other append-only records.
//
// NewUUID yields version 7 identifiers, so lexical order matches creation order
// at millisecond resolution. Ordering of movements inside an order never depends
// on it; the per-order sequence is authoritative.
//
// The zero value is invalid.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a time-ordered UUID (version 7).
// It falls back to a random version 4 UUID if the clock source fails.
//
// Example:
//
//	movementID := kernel.NewUUID()
func NewUUID() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return UUID{id: uuid.New()}
	}
	return UUID{id: id}
}

// UUIDFromString parses any representation accepted by uuid.Parse.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes is used when rebuilding records loaded from the database.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	restored := UUID{id: id}
	if err = restored.Validate(); err != nil {
		return UUID{}, err
	}
	return restored, nil
}

func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying google/uuid value for persistence.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
