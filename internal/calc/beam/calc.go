package beam

import (
	"errors"
	"fmt"
	"math"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/hardware"
	"Deckwright/internal/calc/lumber"
	"Deckwright/internal/calc/post"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/pricebook"
	"Deckwright/internal/spantable"
)

type Input struct {
	Position    deck.Position
	Style       deck.BeamStyle
	SpanFt      float64 // long plan dimension
	JoistSpanFt float64
	HeightFt    float64
	Species     deck.Species
	Footing     deck.Footing
}

type Candidate struct {
	Ply       int
	Dimension string
}

// Candidates in the order ties resolve: fewer plies first, then shallower.
var Candidates = func() []Candidate {
	var out []Candidate
	for ply := 1; ply <= 3; ply++ {
		for _, d := range lumber.BeamDimensions {
			out = append(out, Candidate{Ply: ply, Dimension: d})
		}
	}
	return out
}()

// HeavyJoistSpanFt is the joist span from which beams need at least two plies.
const HeavyJoistSpanFt = 10.0

// Select picks the cheapest built-up beam, with its posts, that carries
// joists of JoistSpanFt over SpanFt in one unspliced piece.
func Select(in Input, tables spantable.Provider, prices *pricebook.Book) (deck.BeamSpec, error) {
	if in.SpanFt <= 0 || in.JoistSpanFt <= 0 {
		return deck.BeamSpec{}, fmt.Errorf("invalid beam input")
	}
	key, ok := spantable.RoundJoistSpan(in.JoistSpanFt)
	if !ok {
		return deck.BeamSpec{}, calcerr.Newf(calcerr.CodeSpanExceeded,
			"joist span %.2f ft is beyond the beam table", in.JoistSpanFt)
	}
	footingCost, err := prices.Footing(in.Footing)
	if err != nil {
		return deck.BeamSpec{}, err
	}
	postHeight := post.Height(in.HeightFt, in.Footing)

	var (
		best     deck.BeamSpec
		bestCost = math.Inf(1)
	)
	for _, c := range Candidates {
		if c.Ply < 2 && in.JoistSpanFt >= HeavyJoistSpanFt {
			continue
		}
		if in.SpanFt > lumber.MaxStock(c.Dimension) {
			continue
		}
		plyDim := spantable.PlyDimension(c.Ply, c.Dimension)
		allow, err := tables.AllowableBeamSpan(in.Species, plyDim, key)
		if errors.Is(err, spantable.ErrSpeciesUnknown) {
			return deck.BeamSpec{}, calcerr.Wrap(calcerr.CodeSpeciesUnknown,
				fmt.Sprintf("beam table has no entries for %s", in.Species), err)
		}
		if err != nil || allow <= 0 {
			continue
		}
		posts, spacing := PostLayout(in.SpanFt, allow)
		if spacing > allow+1e-9 {
			continue
		}

		perFoot, err := prices.Lumber(c.Dimension)
		if err != nil {
			return deck.BeamSpec{}, err
		}
		base, err := prices.Hardware(hardware.PostBase(post.Size(postHeight, c.Ply)))
		if err != nil {
			return deck.BeamSpec{}, err
		}
		cost := float64(c.Ply)*in.SpanFt*perFoot + float64(posts)*(base+footingCost)
		if cost >= bestCost-1e-9 {
			continue
		}
		bestCost = cost
		best = deck.BeamSpec{
			Position:      in.Position,
			Style:         in.Style,
			Size:          plyDim,
			Dimension:     c.Dimension,
			PlyCount:      c.Ply,
			SpanFt:        in.SpanFt,
			JoistSpanKey:  key,
			AllowableFt:   allow,
			PostSpacingFt: spacing,
			PostCount:     posts,
			Segments:      []deck.BeamSegment{{StartFt: 0, LengthFt: in.SpanFt}},
		}
	}
	if math.IsInf(bestCost, 1) {
		return deck.BeamSpec{}, calcerr.Newf(calcerr.CodeSpanExceeded,
			"no %s beam spans %.2f ft carrying %.2f ft joists", in.Species, in.SpanFt, in.JoistSpanFt)
	}
	return best, nil
}

// PostLayout returns the fewest posts that keep spacing within allowableFt
// and the resulting uniform spacing.
func PostLayout(spanFt, allowableFt float64) (int, float64) {
	n := int(math.Ceil(spanFt/allowableFt-1e-9)) + 1
	if n < 2 {
		n = 2
	}
	return n, spanFt / float64(n-1)
}

// Ledger is the beam-equivalent entry for a house-mounted ledger board.
func Ledger(spanFt float64) deck.BeamSpec {
	return deck.BeamSpec{Position: deck.PositionInner, Style: deck.StyleLedger, SpanFt: spanFt}
}
