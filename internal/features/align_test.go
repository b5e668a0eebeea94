package features

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	a := NewAligner(map[string]string{"Sediment / Debris": "Sediment"})
	assert.Equal(t, "sediment", a.Key("sediment / debris"))
	assert.Equal(t, "inletcondition", a.Key("Inlet Condition"))
	assert.Equal(t, "inletcondition", a.Key("inlet_condition"))
	assert.Equal(t, "", a.Key("#"))
}

func TestAlign_SampleSheets(t *testing.T) {
	got := Align(
		[]string{"Vegetation", "Sediment", "Inlet"},
		[]string{"Vegetation", "Sediment / Debris", "Inlet", "Outlet"},
		map[string]string{"Sediment / Debris": "Sediment"},
	)
	want := Alignment{
		Pairs: []Pair{
			{Name: "Inlet", Key: "inlet", Left: "Inlet", Right: "Inlet"},
			{Name: "Sediment / Debris", Key: "sediment", Left: "Sediment", Right: "Sediment / Debris"},
			{Name: "Vegetation", Key: "vegetation", Left: "Vegetation", Right: "Vegetation"},
		},
		RightOnly: []string{"Outlet"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Align mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Inlet", "Sediment / Debris", "Vegetation"}, got.Names())
}

func TestAlign_WithoutAliasRenamedColumnsStayApart(t *testing.T) {
	got := Align([]string{"Sediment"}, []string{"Sediment / Debris"}, nil)
	assert.Empty(t, got.Pairs)
	assert.Equal(t, []string{"Sediment"}, got.LeftOnly)
	assert.Equal(t, []string{"Sediment / Debris"}, got.RightOnly)
}

func TestAlign_PunctuationAndCase(t *testing.T) {
	got := Align([]string{"Inlet_Condition"}, []string{"inlet condition"}, nil)
	assert.Equal(t, []Pair{{Name: "inlet condition", Key: "inletcondition", Left: "Inlet_Condition", Right: "inlet condition"}}, got.Pairs)
}

func TestAlign_DuplicateKeysFirstWins(t *testing.T) {
	got := Align([]string{"Mulch", "MULCH"}, []string{"mulch"}, nil)
	assert.Equal(t, []Pair{{Name: "mulch", Key: "mulch", Left: "Mulch", Right: "mulch"}}, got.Pairs)
	assert.Equal(t, []string{"MULCH"}, got.LeftOnly)
	assert.Empty(t, got.RightOnly)
}
