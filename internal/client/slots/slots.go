package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SlotID names one logical storage slot.
type SlotID string

const (
	Credentials SlotID = "credentials"
	Session     SlotID = "session"
	UserData    SlotID = "userData"
)

var (
	// ErrUnavailable wraps every failure reported by a backend.
	ErrUnavailable = errors.New("secure storage unavailable")

	// ErrTimeout is returned when a backend call exceeds its time budget.
	ErrTimeout = errors.New("secure storage timeout")

	ErrInvalidSlot = errors.New("invalid slot id")
)

func (s SlotID) Validate() error {
	if strings.TrimSpace(string(s)) == "" {
		return ErrInvalidSlot
	}
	return nil
}

// Identifier is the service/account pair a slot is stored under.
type Identifier struct {
	Service string
	Account string
}

// Identifier maps the slot into namespace. Distinct slots always map to
// distinct identifiers.
func (s SlotID) Identifier(namespace string) Identifier {
	return Identifier{Service: namespace + "." + string(s), Account: string(s)}
}

// Store persists one opaque blob per slot.
//
// Write replaces the whole value. Read reports ok=false when the slot was
// never written or has been cleared. Clear on an empty slot succeeds.
type Store interface {
	Write(ctx context.Context, slot SlotID, blob string) error
	Read(ctx context.Context, slot SlotID) (blob string, ok bool, err error)
	Clear(ctx context.Context, slot SlotID) error
}

// UpdateFunc receives the current slot value and returns the value to store.
type UpdateFunc func(current string, ok bool) (string, error)

// Updater is implemented by backends that can run a read-modify-write as one
// atomic unit. An error from fn aborts the update and is returned unchanged.
type Updater interface {
	Update(ctx context.Context, slot SlotID, fn UpdateFunc) error
}

func unavailable(op string, slot SlotID, err error) error {
	return fmt.Errorf("%w: failed to %s slot[%s]: %w", ErrUnavailable, op, slot, err)
}
