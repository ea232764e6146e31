package compliance

import (
	"testing"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/spantable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame() deck.Frame {
	return deck.Frame{
		Request: deck.Request{
			Attachment:   deck.AttachLedger,
			SpeciesGrade: deck.SpeciesSPF2,
			DeckingType:  deck.DeckingComposite1,
			FootingType:  deck.FootingConcrete,
		},
		Joists: deck.JoistSpec{Size: "2x8", SpacingIn: 16, SpanFt: 12, BackSpanFt: 12 - 11.0/12, CantileverFt: 11.0 / 12, Count: 13},
		Beams: []deck.BeamSpec{
			{Position: deck.PositionInner, Style: deck.StyleLedger, SpanFt: 16},
			{Position: deck.PositionOuter, Style: deck.StyleDrop, Size: "2-2x12", Dimension: "2x12", PlyCount: 2,
				SpanFt: 16, PostCount: 3, PostSpacingFt: 8},
		},
	}
}

func TestCheckPasses(t *testing.T) {
	c, err := NewChecker()
	require.NoError(t, err)

	got := c.Check(frame(), spantable.Default(), nil)
	assert.True(t, got.Passes)
	assert.Empty(t, got.Warnings)
	assert.NotNil(t, got.Warnings)
	assert.Len(t, got.Citations, 4)
}

func TestCheckViolations(t *testing.T) {
	c, err := NewChecker()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*deck.Frame)
		want   string
	}{
		{"decking spacing", func(f *deck.Frame) { f.Joists.SpacingIn = 24; f.Joists.Size = "2x12" }, "maximum for composite_1in decking"},
		{"cantilever ratio", func(f *deck.Frame) { f.Joists.CantileverFt = 3; f.Joists.BackSpanFt = 9 }, "one quarter"},
		{"joist span", func(f *deck.Frame) { f.Joists.CantileverFt = 0; f.Joists.BackSpanFt = 12 }, "exceeds allowable"},
		{"beam post spacing", func(f *deck.Frame) { f.Beams[1].PostSpacingFt = 16; f.Beams[1].PostCount = 2 }, "outer beam 2-2x12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frame()
			tt.mutate(&f)
			got := c.Check(f, spantable.Default(), nil)
			assert.False(t, got.Passes)
			require.Len(t, got.Warnings, 1)
			assert.Contains(t, got.Warnings[0], tt.want)
		})
	}
}

func TestCheckMergesExtraWarnings(t *testing.T) {
	c, err := NewChecker()
	require.NoError(t, err)
	got := c.Check(frame(), spantable.Default(), []string{"3 posts but only 0 post caps"})
	assert.False(t, got.Passes)
	assert.Equal(t, []string{"3 posts but only 0 post caps"}, got.Warnings)
}

func TestCheckUnverifiableBeam(t *testing.T) {
	c, err := NewChecker()
	require.NoError(t, err)
	f := frame()
	f.Beams[1].Size = "4-2x12"
	got := c.Check(f, spantable.Default(), nil)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "cannot verify outer beam")
}

func TestNewCheckerRejectsBadRule(t *testing.T) {
	_, err := NewCheckerWithRules([]Rule{{ID: "broken", Expression: "joist.spacing_in <="}})
	assert.Error(t, err)
}

func TestCustomRuleWithoutDescription(t *testing.T) {
	c, err := NewCheckerWithRules([]Rule{{ID: "never", Scope: ScopeJoist, Expression: "joist.spacing_in > 100.0"}})
	require.NoError(t, err)
	got := c.Check(frame(), spantable.Default(), nil)
	assert.Equal(t, []string{"rule never failed"}, got.Warnings)
}
