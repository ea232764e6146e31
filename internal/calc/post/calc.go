package post

import (
	"fmt"
	"math"

	"Deckwright/internal/calc/deck"
)

type footingGeometry struct {
	revealFt float64 // footing top above grade
	minFt    float64
}

var footings = map[deck.Footing]footingGeometry{
	deck.FootingConcrete: {revealFt: 0.5, minFt: 0.5},
	deck.FootingHelical:  {revealFt: 0.0, minFt: 1.0},
	deck.FootingSurface:  {revealFt: 0.67, minFt: 0.0},
}

// TallPostFt is the height above which posts step up to 6x6.
const TallPostFt = 8.0

type Input struct {
	Beams           []deck.BeamSpec
	HeightFt        float64
	Footing         deck.Footing
	DeckDimensionFt float64 // joist plan span
	CantileverFt    float64
}

// Height is the post length between footing and beam for a deck surface at
// deckHeightFt.
// The result is rounded to a millionth of a foot so subtraction noise never
// pushes a post past a stock length.
func Height(deckHeightFt float64, f deck.Footing) float64 {
	g := footings[f]
	return math.Round(math.Max(deckHeightFt-g.revealFt, g.minFt)*1e6) / 1e6
}

func Size(heightFt float64, ply int) string {
	if heightFt > TallPostFt || ply >= 3 {
		return "6x6"
	}
	return "4x4"
}

// Generate places posts under every beam carried on posts. X runs along the
// beam from its start, Y across the deck from the house side.
func Generate(in Input) ([]deck.PostSpec, error) {
	if in.HeightFt < 0 || in.DeckDimensionFt <= 0 {
		return nil, fmt.Errorf("invalid input")
	}
	if _, ok := footings[in.Footing]; !ok {
		return nil, fmt.Errorf("unknown footing %q", in.Footing)
	}
	h := Height(in.HeightFt, in.Footing)

	var posts []deck.PostSpec
	for _, b := range in.Beams {
		if b.IsLedger() {
			continue
		}
		if b.PostCount < 2 {
			return nil, fmt.Errorf("%s beam has %d posts", b.Position, b.PostCount)
		}
		across := 0.0
		if b.Position == deck.PositionOuter {
			across = in.DeckDimensionFt - in.CantileverFt
		}
		size := Size(h, b.PlyCount)
		for i := 0; i < b.PostCount; i++ {
			along := float64(i) * b.PostSpacingFt
			if i == b.PostCount-1 {
				along = b.SpanFt
			}
			posts = append(posts, deck.PostSpec{
				XFt:      along,
				YFt:      across,
				Beam:     b.Position,
				HeightFt: h,
				Size:     size,
			})
		}
	}
	return posts, nil
}
