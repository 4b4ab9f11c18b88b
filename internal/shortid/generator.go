package shortid

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
)

// Length is the number of characters in every generated id.
const Length = 8

// 6 random bytes encode to exactly 8 base64 characters, no padding.
const randomBytes = 6

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

// Generator produces candidate short ids. Uniqueness is the store's job.
type Generator interface {
	Generate() (string, error)
}

type randomGenerator struct {
	source io.Reader
}

// NewGenerator returns a generator backed by crypto/rand.
func NewGenerator() Generator {
	return &randomGenerator{source: rand.Reader}
}

// NewGeneratorFromReader is used by tests to inject a failing or fixed source.
func NewGeneratorFromReader(r io.Reader) Generator {
	return &randomGenerator{source: r}
}

// Generate returns a random 8-character URL-safe id.
func (g *randomGenerator) Generate() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf)[:Length], nil
}

// IsValid reports whether id could have been produced by the generator.
func IsValid(id string) bool {
	return validID.MatchString(id)
}
