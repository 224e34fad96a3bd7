package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Unique(t *testing.T) {
	var g UUID
	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		id := g.New()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("v-")
	assert.Equal(t, "v-1", s.New())
	assert.Equal(t, "v-2", s.New())
}
