package lumber

import (
	"fmt"
	"math"
)

// Nominal dimensions in inches, used for board-foot arithmetic.
type Nominal struct {
	WidthIn float64
	DepthIn float64
}

var nominal = map[string]Nominal{
	"2x6":  {2, 6},
	"2x8":  {2, 8},
	"2x10": {2, 10},
	"2x12": {2, 12},
	"4x4":  {4, 4},
	"6x6":  {6, 6},
}

var stock = map[string][]float64{
	"2x6":  {8, 10, 12, 14, 16, 18, 20},
	"2x8":  {8, 10, 12, 14, 16, 18, 20},
	"2x10": {8, 10, 12, 14, 16, 18, 20, 24},
	"2x12": {8, 10, 12, 14, 16, 18, 20, 24},
	"4x4":  {8, 10, 12},
	"6x6":  {8, 10, 12, 14, 16},
}

// JoistSizes in ascending order of capacity.
var JoistSizes = []string{"2x6", "2x8", "2x10", "2x12"}

// BeamDimensions in ascending order of depth.
var BeamDimensions = []string{"2x8", "2x10", "2x12"}

var PostSizes = []string{"4x4", "6x6"}

func Dimensions(size string) (Nominal, error) {
	n, ok := nominal[size]
	if !ok {
		return Nominal{}, fmt.Errorf("unknown lumber size %q", size)
	}
	return n, nil
}

// Depth returns the nominal depth in inches, e.g. 10 for "2x10".
func Depth(size string) (int, error) {
	n, err := Dimensions(size)
	if err != nil {
		return 0, err
	}
	return int(n.DepthIn), nil
}

// MaxStock is the longest length carried for a size.
func MaxStock(size string) float64 {
	lengths := stock[size]
	if len(lengths) == 0 {
		return 0
	}
	return lengths[len(lengths)-1]
}

// StockLength rounds a required length up to the nearest stock length for
// size. Past the longest stock length it rounds up to the next even foot
// (special order), so the result is never shorter than lengthFt.
func StockLength(lengthFt float64, size string) float64 {
	if lengthFt <= 0 {
		return 0
	}
	for _, l := range stock[size] {
		if lengthFt <= l {
			return l
		}
	}
	return math.Ceil(lengthFt/2) * 2
}

// Pieces splits a run that may exceed the longest stock length into equal
// pieces and returns the piece count and the stock length of each piece.
func Pieces(runFt float64, size string) (int, float64) {
	if runFt <= 0 {
		return 0, 0
	}
	max := MaxStock(size)
	if max <= 0 || runFt <= max {
		return 1, StockLength(runFt, size)
	}
	n := int(math.Ceil(runFt / max))
	return n, StockLength(runFt/float64(n), size)
}

// BoardFeet returns the nominal board footage of one piece.
func BoardFeet(size string, lengthFt float64) (float64, error) {
	n, err := Dimensions(size)
	if err != nil {
		return 0, err
	}
	return n.WidthIn * n.DepthIn * lengthFt / 12.0, nil
}
