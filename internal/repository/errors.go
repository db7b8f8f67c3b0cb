// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers to
// distinguish between failure scenarios: ErrNotFound maps lookups of
// missing rows, ErrDuplicate signals a unique-key violation such as an
// already-taken login or a second rental for the same offer.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// index (MySQL error 1062).
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicate reports whether err looks like a MySQL duplicate-key
// violation. The driver does not export a typed error for this, so the
// error code is matched in the message.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
