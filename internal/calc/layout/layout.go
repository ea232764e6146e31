package layout

import "Deckwright/internal/calc/deck"

// Inline inner beams are used below this deck height.
const InlineClearanceFt = 3.0

type Plan struct {
	JoistSpanFt float64
	BeamSpanFt  float64
	Orientation deck.Orientation
}

// Orient makes joists span the shorter plan dimension. A square deck spans
// its width.
func Orient(widthFt, lengthFt float64) Plan {
	if widthFt <= lengthFt {
		return Plan{JoistSpanFt: widthFt, BeamSpanFt: lengthFt, Orientation: deck.SpansWidth}
	}
	return Plan{JoistSpanFt: lengthFt, BeamSpanFt: widthFt, Orientation: deck.SpansLength}
}

// ResolveBeamStyles fills in the beam styles the caller left empty.
// Supplied styles are kept as given.
func ResolveBeamStyles(req deck.Request) deck.Request {
	if req.BeamStyleOuter == "" {
		req.BeamStyleOuter = deck.StyleDrop
	}
	if req.Attachment == deck.AttachLedger {
		req.BeamStyleInner = deck.StyleLedger
		return req
	}
	if req.BeamStyleInner == "" {
		if req.HeightFt < InlineClearanceFt || req.FootingType == deck.FootingHelical {
			req.BeamStyleInner = deck.StyleInline
		} else {
			req.BeamStyleInner = deck.StyleDrop
		}
	}
	return req
}
