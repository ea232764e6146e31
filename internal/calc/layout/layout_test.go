package layout

import (
	"testing"

	"Deckwright/internal/calc/deck"

	"github.com/stretchr/testify/assert"
)

func TestOrient(t *testing.T) {
	p := Orient(12, 16)
	assert.Equal(t, 12.0, p.JoistSpanFt)
	assert.Equal(t, 16.0, p.BeamSpanFt)
	assert.Equal(t, deck.SpansWidth, p.Orientation)

	p = Orient(20, 14)
	assert.Equal(t, 14.0, p.JoistSpanFt)
	assert.Equal(t, 20.0, p.BeamSpanFt)
	assert.Equal(t, deck.SpansLength, p.Orientation)

	p = Orient(10, 10)
	assert.Equal(t, deck.SpansWidth, p.Orientation)
}

func TestResolveBeamStyles(t *testing.T) {
	tests := []struct {
		name      string
		req       deck.Request
		wantOuter deck.BeamStyle
		wantInner deck.BeamStyle
	}{
		{
			name:      "ledger forces ledger inner",
			req:       deck.Request{Attachment: deck.AttachLedger, HeightFt: 6, FootingType: deck.FootingConcrete},
			wantOuter: deck.StyleDrop,
			wantInner: deck.StyleLedger,
		},
		{
			name:      "low free deck goes inline",
			req:       deck.Request{Attachment: deck.AttachFree, HeightFt: 2, FootingType: deck.FootingConcrete},
			wantOuter: deck.StyleDrop,
			wantInner: deck.StyleInline,
		},
		{
			name:      "helical goes inline at any height",
			req:       deck.Request{Attachment: deck.AttachFree, HeightFt: 8, FootingType: deck.FootingHelical},
			wantOuter: deck.StyleDrop,
			wantInner: deck.StyleInline,
		},
		{
			name:      "tall concrete deck drops",
			req:       deck.Request{Attachment: deck.AttachFree, HeightFt: 3, FootingType: deck.FootingConcrete},
			wantOuter: deck.StyleDrop,
			wantInner: deck.StyleDrop,
		},
		{
			name: "explicit styles are kept",
			req: deck.Request{Attachment: deck.AttachFree, HeightFt: 1, FootingType: deck.FootingHelical,
				BeamStyleOuter: deck.StyleInline, BeamStyleInner: deck.StyleDrop},
			wantOuter: deck.StyleInline,
			wantInner: deck.StyleDrop,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBeamStyles(tt.req)
			assert.Equal(t, tt.wantOuter, got.BeamStyleOuter)
			assert.Equal(t, tt.wantInner, got.BeamStyleInner)
		})
	}
}
