package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints opaque identifiers for newly created records. Stores treat
// the values as plain strings, so any collision-free scheme works.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 32-character hex IDs from 128 bits of randomness.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
