package invalidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhysicalIDStrategy(t *testing.T) {
	for in, want := range map[string]PhysicalIDStrategy{"": PhysicalIDStable, "stable": PhysicalIDStable, "timestamp": PhysicalIDTimestamp} {
		got, err := ParsePhysicalIDStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePhysicalIDStrategy("random")
	assert.Error(t, err)
}

func TestPhysicalResourceID(t *testing.T) {
	assert.Equal(t, "invalidation-E1", PhysicalResourceID(PhysicalIDStable, "E1", "42"))
	assert.Equal(t, "invalidation-42", PhysicalResourceID(PhysicalIDTimestamp, "E1", "42"))
	assert.Equal(t, "invalidation-E1", PhysicalResourceID(PhysicalIDTimestamp, "E1", ""))
}
