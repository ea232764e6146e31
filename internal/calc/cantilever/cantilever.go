package cantilever

import "math"

// MaxRatio limits a joist cantilever to one quarter of its back-span.
const MaxRatio = 0.25

const eps = 1e-6

// Optimizer picks a cantilever length for a joist that must cover spanFt
// with at most allowableFt of supported back-span. ok is false when no
// cantilever within maxRatio of the back-span makes the member work.
type Optimizer interface {
	Cantilever(spanFt, allowableFt, maxRatio float64) (cantileverFt float64, ok bool)
}

// MinimalOverhang returns the shortest whole-inch overhang that brings the
// back-span within the allowable span. Shorter overhangs keep the outer
// beam and its posts close to the deck edge.
type MinimalOverhang struct{}

func (MinimalOverhang) Cantilever(spanFt, allowableFt, maxRatio float64) (float64, bool) {
	spanIn := spanFt * 12
	allowIn := allowableFt * 12
	if allowIn >= spanIn-eps {
		return 0, true
	}
	c := math.Ceil(spanIn - allowIn - eps)
	if !Within(c, spanIn-c, maxRatio) {
		return 0, false
	}
	return c / 12, true
}

// None never cantilevers; the member must span the whole distance.
type None struct{}

func (None) Cantilever(spanFt, allowableFt, _ float64) (float64, bool) {
	return 0, allowableFt >= spanFt-eps/12
}

// Within reports whether a cantilever respects the ratio to its back-span.
// Both lengths must be in the same unit.
func Within(cantilever, backSpan, maxRatio float64) bool {
	return cantilever <= maxRatio*backSpan+eps
}
