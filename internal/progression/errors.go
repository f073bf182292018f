// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progression

import (
	"errors"
	"fmt"

	"github.com/pdiddy/kirnberger/pkg/types"
)

var (
	// ErrNoLegalContinuation reports a step where every candidate voicing of
	// the drawn chord breaks a voice-leading rule.
	ErrNoLegalContinuation = errors.New("no legal continuation")

	// ErrInvalidStepCount reports a negative step count.
	ErrInvalidStepCount = errors.New("invalid step count")
)

// ContinuationError describes the dead end an extension step ran into.
// It unwraps to ErrNoLegalContinuation.
type ContinuationError struct {
	From    types.Chord
	To      types.Chord
	Soprano types.Pitch
	Bass    types.Pitch
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("%s: %s -> %s from soprano %s, bass %s",
		ErrNoLegalContinuation, e.From, e.To, e.Soprano, e.Bass)
}

func (e *ContinuationError) Unwrap() error {
	return ErrNoLegalContinuation
}
