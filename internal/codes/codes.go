// Package codes generates booking confirmation codes: fixed-length
// numeric strings handed to the guest after a successful commit.
package codes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const Length = 10

var ErrExhausted = errors.New("could not draw an unused confirmation code")

// Generator draws a fresh 10-digit numeric code per call. Draws are
// independent: uniqueness across bookings is not enforced here, so a
// collision, while unlikely, is possible.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(_ context.Context) (string, error) {
	digits := make([]byte, Length)

	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10)) //nolint:gomnd
		if err != nil {
			return "", fmt.Errorf("draw random digit: %w", err)
		}

		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}

// LookupFunc reports whether a code is already in use.
type LookupFunc func(ctx context.Context, code string) (bool, error)

// UniqueGenerator wraps a Generator and retries until the lookup
// reports the code unused. It is the documented alternative to the
// default collision-tolerant behavior; the reservation committer uses
// the plain Generator.
type UniqueGenerator struct {
	inner       *Generator
	lookup      LookupFunc
	maxAttempts int
}

func NewUnique(lookup LookupFunc, maxAttempts int) *UniqueGenerator {
	return &UniqueGenerator{
		inner:       New(),
		lookup:      lookup,
		maxAttempts: maxAttempts,
	}
}

func (g *UniqueGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.inner.Generate(ctx)
		if err != nil {
			return "", err
		}

		taken, err := g.lookup(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code for collision: %w", err)
		}

		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("gave up after %v attempts: %w", g.maxAttempts, ErrExhausted)
}
