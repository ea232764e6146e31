package takeoff

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/hardware"
	"Deckwright/internal/calc/lumber"
	"Deckwright/internal/pricebook"
)

// Lumber subcategories.
const (
	SubJoists    = "joists"
	SubBeams     = "beams"
	SubRimJoists = "rim_joists"
	SubLedger    = "ledger"
	SubPosts     = "posts"
)

type Takeoff struct {
	Items          []deck.TakeoffItem `json:"items"`
	BoardFeet      map[string]float64 `json:"board_feet"`
	TotalBoardFeet float64            `json:"total_board_feet"`
	Hardware       deck.Hardware      `json:"hardware"`
}

type lineKey struct {
	sub    string
	size   string
	length float64
}

type builder struct {
	order []lineKey
	qty   map[lineKey]int
	desc  map[lineKey]string
	bf    map[string]float64
}

func (b *builder) lumber(sub, size string, lengthFt float64, qty int, what string) error {
	if qty <= 0 || lengthFt <= 0 {
		return nil
	}
	per, err := lumber.BoardFeet(size, lengthFt)
	if err != nil {
		return err
	}
	k := lineKey{sub: sub, size: size, length: lengthFt}
	if _, ok := b.qty[k]; !ok {
		b.order = append(b.order, k)
		b.desc[k] = fmt.Sprintf("%s %s, %g ft", size, what, lengthFt)
	}
	b.qty[k] += qty
	b.bf[size] += per * float64(qty)
	return nil
}

func (b *builder) run(sub, size string, runFt float64, what string) error {
	n, piece := lumber.Pieces(runFt, size)
	return b.lumber(sub, size, piece, n, what)
}

// Generate converts a frame into purchasable stock, footings and hardware.
// A hardware failure is logged and leaves the hardware groups empty.
func Generate(f deck.Frame, prices *pricebook.Book, log *zap.Logger) (Takeoff, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{
		qty:  map[lineKey]int{},
		desc: map[lineKey]string{},
		bf:   map[string]float64{},
	}

	j := f.Joists
	if j.Count > 0 {
		n, piece := lumber.Pieces(j.TotalLengthFt, j.Size)
		if err := b.lumber(SubJoists, j.Size, piece, j.Count*n, "joist"); err != nil {
			return Takeoff{}, err
		}
	}

	var beamSpan float64
	for _, bm := range f.Beams {
		beamSpan = math.Max(beamSpan, bm.SpanFt)
		if bm.IsLedger() {
			continue
		}
		if bm.Style == deck.StyleDrop {
			if err := b.run(SubRimJoists, j.Size, bm.SpanFt, "rim joist"); err != nil {
				return Takeoff{}, err
			}
		}
		for _, seg := range bm.Segments {
			stock := lumber.StockLength(seg.LengthFt, bm.Dimension)
			if err := b.lumber(SubBeams, bm.Dimension, stock, bm.PlyCount, "beam ply"); err != nil {
				return Takeoff{}, err
			}
		}
	}
	if f.Request.Attachment == deck.AttachLedger {
		if err := b.run(SubLedger, j.Size, beamSpan, "ledger board"); err != nil {
			return Takeoff{}, err
		}
	}

	for _, p := range f.Posts {
		if err := b.lumber(SubPosts, p.Size, lumber.StockLength(p.HeightFt, p.Size), 1, "post"); err != nil {
			return Takeoff{}, err
		}
	}

	items := make([]deck.TakeoffItem, 0, len(b.order)+6)
	for _, k := range b.order {
		perFoot, err := prices.Lumber(k.size)
		if err != nil {
			return Takeoff{}, err
		}
		items = append(items, deck.NewItem(b.desc[k], b.qty[k], "ea", round2(perFoot*k.length),
			deck.CategoryLumber, k.sub, k.size))
	}

	if len(f.Posts) > 0 {
		cost, err := prices.Footing(f.Request.FootingType)
		if err != nil {
			return Takeoff{}, err
		}
		items = append(items, deck.NewItem(fmt.Sprintf("%s footing", f.Request.FootingType), len(f.Posts), "ea", cost,
			deck.CategoryFootings, string(f.Request.FootingType), string(f.Request.FootingType)))
	}

	hw, err := hardware.Calculate(f, prices)
	if err != nil {
		log.Warn("hardware calculation failed, continuing without hardware",
			zap.Error(err),
			zap.String("joist_size", j.Size),
			zap.Int("joists", j.Count),
		)
		hw = deck.Hardware{}
	}
	items = append(items, hw.Items()...)

	out := Takeoff{Items: items, BoardFeet: map[string]float64{}, Hardware: hw}
	sizes := make([]string, 0, len(b.bf))
	for s := range b.bf {
		sizes = append(sizes, s)
	}
	sort.Strings(sizes)
	for _, s := range sizes {
		out.BoardFeet[s] = round2(b.bf[s])
		out.TotalBoardFeet += b.bf[s]
	}
	out.TotalBoardFeet = round2(out.TotalBoardFeet)
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
