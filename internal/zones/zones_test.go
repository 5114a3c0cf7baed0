package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_SixZonesWithUniqueIDs(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	ids := make(map[string]bool)
	for _, z := range all {
		assert.NotEmpty(t, z.ID)
		assert.NotEmpty(t, z.Name)
		assert.NotEmpty(t, z.Color)
		assert.False(t, ids[z.ID], "duplicate zone id %s", z.ID)
		ids[z.ID] = true
	}
}

func TestByID(t *testing.T) {
	z, ok := ByID("RI0rBOL5odQ7EmPVtvSz")
	require.True(t, ok)
	assert.Equal(t, "Soy", z.Name)
	assert.Equal(t, "#E31837", z.Color)

	_, ok = ByID("unknown")
	assert.False(t, ok)
}

func TestByName(t *testing.T) {
	z, ok := ByName("Expreso")
	require.True(t, ok)
	assert.Equal(t, "mOMM1tyb7izKgyU4D1kP", z.ID)

	_, ok = ByName("Nope")
	assert.False(t, ok)
}

func TestByColor_IsCaseInsensitive(t *testing.T) {
	z, ok := ByColor("#e31837")
	require.True(t, ok)
	assert.Equal(t, "Soy", z.Name)

	_, ok = ByColor("#000000")
	assert.False(t, ok)
}
