package idgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{2}[0-9]{5}$`)
	for i := 0; i < 1000; i++ {
		id := New()
		assert.Regexp(t, pattern, id)
	}
}

func TestNewVariety(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[New()] = struct{}{}
	}
	// collisions in 1000 draws from a 67.6M space should be rare
	assert.Greater(t, len(seen), 990)
}
