package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/suburb-cli/internal/model"
)

func TestBuildIndex(t *testing.T) {
	darwin := place("DARWIN", 800, "NT", "-12.4633", "130.8434")
	records := []model.Locality{sydney, darwin, surryHills, chatswood}

	idx := BuildIndex(records)

	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, 4, idx.Keys())
	assert.Equal(t, []string{"NSW", "NT"}, idx.Regions())

	got, ok := idx.Lookup("SURRY HILLS", "2010")
	require.True(t, ok)
	assert.Equal(t, surryHills, got)

	_, ok = idx.Lookup("SURRY HILLS", "2000")
	assert.False(t, ok)

	// Region groups keep dataset order.
	assert.Equal(t, []model.Locality{sydney, surryHills, chatswood}, idx.Region("NSW"))
	assert.Equal(t, []model.Locality{darwin}, idx.Region("NT"))
	assert.Empty(t, idx.Region("WA"))
}

func TestBuildIndex_MixedCaseNames(t *testing.T) {
	idx := BuildIndex([]model.Locality{place("Surry Hills", 2010, "NSW", "-33.8849", "151.21")})

	_, ok := idx.Lookup("SURRY HILLS", "2010")
	assert.True(t, ok)
	_, ok = idx.Lookup("Surry Hills", "2010")
	assert.False(t, ok, "lookups take already-normalised names")
}

func TestBuildIndex_DuplicateKeyLastWins(t *testing.T) {
	first := place("SYDNEY", 2000, "NSW", "-33.8697", "151.2099")
	second := place("SYDNEY", 2000, "NSW", "-33.8688", "151.2093")

	idx := BuildIndex([]model.Locality{first, second})

	got, ok := idx.Lookup("SYDNEY", "2000")
	require.True(t, ok)
	assert.Equal(t, "-33.8688", got.Latitude.String())
	assert.Equal(t, 1, idx.Keys())
	assert.Len(t, idx.Region("NSW"), 2)
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Regions())
	_, ok := idx.Lookup("SYDNEY", "2000")
	assert.False(t, ok)
}
