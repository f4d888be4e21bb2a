package shortcode

import (
	"context"
	"errors"
	"fmt"
)

// maxAllocateAttempts caps the generate-and-check loop. With a 62^6 code
// space the loop terminates on the first attempt in practice; the cap only
// guards against a pathologically full store.
const maxAllocateAttempts = 10

// ErrSpaceExhausted is returned when no free code was found within the
// attempt cap.
var ErrSpaceExhausted = errors.New("shortcode: code space exhausted")

// CodeChecker reports whether a code is already held by a live record.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Allocate returns a code currently absent from the checker's live codes.
//
// The existence check is an optimization, not a guarantee: two concurrent
// callers can both pass it for the same code. The store's uniqueness
// constraint is the authority at commit time, and callers must treat a
// commit-time conflict as a signal to allocate again.
func (g *Generator) Allocate(ctx context.Context, checker CodeChecker) (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		code, err := g.Code()
		if err != nil {
			return "", err
		}
		exists, err := checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("shortcode: check code %q: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrSpaceExhausted
}
