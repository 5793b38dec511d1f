package signatures_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farconic/custody-api/internal/signatures"
)

func TestWindowContains(t *testing.T) {
	start := int64(1_000)
	end := int64(2_000)

	tests := []struct {
		name string
		now  int64
		want bool
	}{
		{"before start", 999, false},
		{"at start", 1_000, true},
		{"inside", 1_500, true},
		{"just before end", 1_999, true},
		{"at end", 2_000, false},
		{"after end", 3_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signatures.WindowContains(tt.now, big.NewInt(start), big.NewInt(end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowContains_EmptyWindow(t *testing.T) {
	// start == end admits nothing.
	assert.False(t, signatures.WindowContains(500, big.NewInt(500), big.NewInt(500)))
}
