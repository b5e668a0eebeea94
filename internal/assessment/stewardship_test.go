package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStewardshipResolver(t *testing.T) {
	r := NewStewardshipResolver(map[string]string{"Adopted": "Seeding"})

	tests := []struct {
		raw   string
		want  Stewardship
		known bool
	}{
		{"", StewardshipNone, true},
		{"   ", StewardshipNone, true},
		{"None", StewardshipNone, true},
		{"seeding", StewardshipSeeding, true},
		{"  ADOPTED ", StewardshipSeeding, true},
		{"green   streets", StewardshipGreenStreets, true},
		{"Rain Garden", Stewardship("Rain Garden"), false},
		{"all", Stewardship("all (label)"), false},
		{" ALL ", Stewardship("ALL (label)"), false},
	}
	for _, tt := range tests {
		got, known := r.Resolve(tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		assert.Equal(t, tt.known, known, "raw %q", tt.raw)
	}
}

func TestSortStewardships(t *testing.T) {
	list := []Stewardship{StewardshipAll, "Zeta", StewardshipGreenStreets, "Alpha", StewardshipNone, StewardshipSeeding}
	SortStewardships(list)
	assert.Equal(t, []Stewardship{
		StewardshipNone, StewardshipSeeding, StewardshipGreenStreets, "Alpha", "Zeta", StewardshipAll,
	}, list)
}

func TestStewardship_Known(t *testing.T) {
	assert.True(t, StewardshipSeeding.Known())
	assert.False(t, StewardshipAll.Known())
	assert.False(t, Stewardship("Other").Known())
}

func TestStewardshipResolver_AliasTargets(t *testing.T) {
	r := NewStewardshipResolver(map[string]string{
		"seed":     "seeding",
		"gs2":      " GREEN  streets ",
		"pilot":    "Pilot Program",
		"combined": "All",
	})

	tests := []struct {
		raw   string
		want  Stewardship
		known bool
	}{
		{"seed", StewardshipSeeding, true},
		{"GS2", StewardshipGreenStreets, true},
		{"pilot", Stewardship("Pilot Program"), false},
		{"combined", Stewardship("All (label)"), false},
	}
	for _, tt := range tests {
		got, known := r.Resolve(tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		assert.Equal(t, tt.known, known, "raw %q", tt.raw)
	}
}

func TestCanonicalStewardship(t *testing.T) {
	s, ok := CanonicalStewardship(" none ")
	assert.True(t, ok)
	assert.Equal(t, StewardshipNone, s)

	_, ok = CanonicalStewardship("All")
	assert.False(t, ok)
}
