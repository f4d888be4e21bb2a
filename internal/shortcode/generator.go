// Package shortcode generates short codes and allocates ones that are free
// in a backing store.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"io"
)

// DefaultAlphabet is the 62-character code alphabet: upper, lower, digits.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the default generated code length. 62^6 is roughly 56
// billion combinations, so random collisions are vanishingly rare.
const DefaultLength = 6

// Generator produces fixed-length random codes over a fixed alphabet. The
// randomness source is injectable so tests can run deterministic; the zero
// source means crypto/rand.
type Generator struct {
	length   int
	alphabet string
	source   io.Reader
}

// New returns a Generator over DefaultAlphabet using crypto/rand.
// It panics if length is not positive: that is a programming error, not a
// runtime condition.
func New(length int) *Generator {
	return NewWithAlphabet(length, DefaultAlphabet, rand.Reader)
}

// NewWithAlphabet returns a Generator over the given alphabet and randomness
// source. It panics on an empty or oversized alphabet, a non-positive
// length, or a nil source.
func NewWithAlphabet(length int, alphabet string, source io.Reader) *Generator {
	if length <= 0 {
		panic(fmt.Sprintf("shortcode: invalid code length %d", length))
	}
	if alphabet == "" {
		panic("shortcode: empty alphabet")
	}
	// Code draws one byte per character, so the alphabet must fit in a
	// byte's range or every draw would be rejected.
	if len(alphabet) > 256 {
		panic(fmt.Sprintf("shortcode: alphabet of %d characters exceeds 256", len(alphabet)))
	}
	if source == nil {
		panic("shortcode: nil randomness source")
	}
	return &Generator{length: length, alphabet: alphabet, source: source}
}

// Length returns the configured code length.
func (g *Generator) Length() int { return g.length }

// Alphabet returns the configured alphabet.
func (g *Generator) Alphabet() string { return g.alphabet }

// Code returns a string of exactly the configured length, each character
// drawn independently and uniformly from the alphabet.
func (g *Generator) Code() (string, error) {
	out := make([]byte, g.length)
	max := 256 - 256%len(g.alphabet)

	var buf [1]byte
	for i := 0; i < g.length; {
		if _, err := io.ReadFull(g.source, buf[:]); err != nil {
			return "", fmt.Errorf("shortcode: read random bytes: %w", err)
		}
		// Rejection sampling keeps the distribution uniform when 256 is
		// not a multiple of the alphabet size.
		if int(buf[0]) >= max {
			continue
		}
		out[i] = g.alphabet[int(buf[0])%len(g.alphabet)]
		i++
	}
	return string(out), nil
}
