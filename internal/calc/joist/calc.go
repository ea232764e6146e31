package joist

import (
	"errors"
	"fmt"
	"math"

	"Deckwright/internal/calc/cantilever"
	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/lumber"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/pricebook"
	"Deckwright/internal/spantable"
)

type Input struct {
	SpanFt          float64 // short plan dimension
	LongDimensionFt float64
	Orientation     deck.Orientation
	Species         deck.Species
	ForcedSpacingIn int
	Decking         deck.Decking
	OuterBeamStyle  deck.BeamStyle
	Footing         deck.Footing
	Goal            deck.Goal
}

// Select picks joist size, spacing and cantilever for the span.
func Select(in Input, tables spantable.Provider, prices *pricebook.Book, opt cantilever.Optimizer) (deck.JoistSpec, error) {
	if in.SpanFt <= 0 || in.LongDimensionFt <= 0 {
		return deck.JoistSpec{}, fmt.Errorf("invalid joist input")
	}
	spacings, err := candidateSpacings(in, tables)
	if err != nil {
		return deck.JoistSpec{}, err
	}
	// An inline outer beam carries joists in hangers and a floating deck on
	// surface blocks bears at its perimeter; neither can cantilever.
	if in.OuterBeamStyle == deck.StyleInline || in.Footing == deck.FootingSurface || opt == nil {
		opt = cantilever.None{}
	}

	var candidates []deck.JoistSpec
	for _, spacing := range spacings {
		for _, size := range lumber.JoistSizes {
			allow, err := tables.AllowableJoistSpan(in.Species, size, spacing)
			if errors.Is(err, spantable.ErrSpeciesUnknown) {
				return deck.JoistSpec{}, calcerr.Wrap(calcerr.CodeSpeciesUnknown,
					fmt.Sprintf("joist table has no entries for %s", in.Species), err)
			}
			if err != nil {
				continue
			}
			c, ok := opt.Cantilever(in.SpanFt, allow, cantilever.MaxRatio)
			if !ok {
				continue
			}
			perFoot, err := prices.Lumber(size)
			if err != nil {
				return deck.JoistSpec{}, err
			}
			count := Count(in.LongDimensionFt, spacing)
			back := in.SpanFt - c
			candidates = append(candidates, deck.JoistSpec{
				Size:          size,
				SpacingIn:     spacing,
				SpanFt:        in.SpanFt,
				BackSpanFt:    back,
				CantileverFt:  c,
				Orientation:   in.Orientation,
				Count:         count,
				EndJoists:     2,
				TotalLengthFt: in.SpanFt,
				AllowableFt:   allow,
				MaterialCost:  float64(count) * in.SpanFt * perFoot,
			})
			break
		}
	}
	if len(candidates) == 0 {
		return deck.JoistSpec{}, calcerr.Newf(calcerr.CodeSpanExceeded,
			"no %s joist spans %.2f ft at %v in spacing", in.Species, in.SpanFt, spacings)
	}
	return pick(candidates, in.Goal), nil
}

func candidateSpacings(in Input, tables spantable.Provider) ([]int, error) {
	if in.ForcedSpacingIn != 0 {
		return []int{in.ForcedSpacingIn}, nil
	}
	max, err := tables.MaxDeckingSpacing(in.Decking)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, s := range deck.Spacings {
		if s <= max {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, calcerr.Newf(calcerr.CodeSpanExceeded, "decking %s allows no standard joist spacing (max %d in)", in.Decking, max)
	}
	return out, nil
}

func pick(candidates []deck.JoistSpec, goal deck.Goal) deck.JoistSpec {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch goal {
		case deck.GoalStrength:
			r, br := c.Reserve(), best.Reserve()
			if r > br+1e-9 || (math.Abs(r-br) <= 1e-9 && c.MaterialCost < best.MaterialCost-1e-9) {
				best = c
			}
		default:
			if c.MaterialCost < best.MaterialCost-1e-9 {
				best = c
			}
		}
	}
	return best
}

// Count returns the joists needed along longFt at spacingIn, both edge
// joists included.
func Count(longFt float64, spacingIn int) int {
	n := int(math.Ceil(longFt*12/float64(spacingIn)-1e-9)) + 1
	if n < 2 {
		n = 2
	}
	return n
}
