package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

const (
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberSuffix   = 6
)

// OrderNumberGenerator builds ORD-<unix millis>-<6 random [A-Z0-9]> numbers.
type OrderNumberGenerator struct {
	now    func() time.Time
	random io.Reader
}

func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{now: time.Now, random: rand.Reader}
}

// NewOrderNumberGeneratorWith is for tests that need a fixed clock or random source.
func NewOrderNumberGeneratorWith(now func() time.Time, random io.Reader) *OrderNumberGenerator {
	return &OrderNumberGenerator{now: now, random: random}
}

func (g *OrderNumberGenerator) Generate() (string, error) {
	suffix := make([]byte, 0, orderNumberSuffix)
	buf := make([]byte, orderNumberSuffix*2)

	// 252 is the largest multiple of 36 below 256; rejecting above it keeps the draw uniform.
	const limit = 252
	for len(suffix) < orderNumberSuffix {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			suffix = append(suffix, orderNumberAlphabet[int(b)%len(orderNumberAlphabet)])
			if len(suffix) == orderNumberSuffix {
				break
			}
		}
	}

	return fmt.Sprintf("ORD-%d-%s", g.now().UnixMilli(), suffix), nil
}
