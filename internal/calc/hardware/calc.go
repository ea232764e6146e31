package hardware

import (
	"fmt"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/lumber"
	"Deckwright/internal/pricebook"
)

// HangerLines counts the supports joists hang from: the ledger plus every
// inline beam.
func HangerLines(f deck.Frame) int {
	n := 0
	if f.Request.Attachment == deck.AttachLedger {
		n++
	}
	for _, b := range f.StructuralBeams() {
		if b.Style == deck.StyleInline {
			n++
		}
	}
	return n
}

// DropBeams counts beams the joists bear on from above.
func DropBeams(f deck.Frame) int {
	n := 0
	for _, b := range f.StructuralBeams() {
		if b.Style == deck.StyleDrop {
			n++
		}
	}
	return n
}

// TensionTies is the ledger tie count: one every fourth joist.
func TensionTies(joists int) int {
	return ceilDiv(joists, 4)
}

// Calculate derives connector and fastener quantities for a frame.
func Calculate(f deck.Frame, prices *pricebook.Book) (deck.Hardware, error) {
	j := f.Joists
	if j.Count < 2 {
		return deck.Hardware{}, fmt.Errorf("frame has %d joists", j.Count)
	}
	depth, err := lumber.Depth(j.Size)
	if err != nil {
		return deck.Hardware{}, err
	}

	var (
		hw            deck.Hardware
		nails, screws int
	)
	add := func(group *[]deck.TakeoffItem, name string, qty int) error {
		if qty <= 0 {
			return nil
		}
		m, err := Lookup(name)
		if err != nil {
			return err
		}
		cost, err := prices.Hardware(name)
		if err != nil {
			return err
		}
		*group = append(*group, deck.NewItem(m.Description, qty, "ea", cost, deck.CategoryHardware, m.Subcategory, name))
		nails += qty * m.Nails
		screws += qty * m.Screws
		return nil
	}

	lines := HangerLines(f)
	if err := add(&hw.JoistHangers, StandardHanger(depth), lines*(j.Count-2)); err != nil {
		return deck.Hardware{}, err
	}
	if err := add(&hw.JoistHangers, ConcealedHanger(depth), lines*2); err != nil {
		return deck.Hardware{}, err
	}

	if f.Request.Attachment == deck.AttachLedger {
		if err := add(&hw.StructuralTies, TensionTie, TensionTies(j.Count)); err != nil {
			return deck.Hardware{}, err
		}
	}
	tie := HurricaneTie
	if j.CantileverFt > HeavyTieOverFt {
		tie = HeavyHurricaneTie
	}
	if err := add(&hw.StructuralTies, tie, DropBeams(f)*j.Count); err != nil {
		return deck.Hardware{}, err
	}

	bySize := map[string]int{}
	for _, p := range f.Posts {
		bySize[p.Size]++
	}
	for _, size := range lumber.PostSizes {
		n := bySize[size]
		if err := add(&hw.PostConnections, PostCap(size), n); err != nil {
			return deck.Hardware{}, err
		}
		if err := add(&hw.PostConnections, PostBase(size), n); err != nil {
			return deck.Hardware{}, err
		}
		delete(bySize, size)
	}
	if len(bySize) > 0 {
		return deck.Hardware{}, fmt.Errorf("no post connectors for %d posts of unknown size", len(f.Posts))
	}

	for _, need := range []struct {
		pack  Pack
		count int
	}{{NailPack, nails}, {ScrewPack, screws}} {
		if need.count == 0 {
			continue
		}
		cost, err := prices.Fastener(need.pack.Key)
		if err != nil {
			return deck.Hardware{}, err
		}
		qty := ceilDiv(need.count, need.pack.Size)
		hw.Fasteners = append(hw.Fasteners, deck.NewItem(need.pack.Description, qty, "pack", cost,
			deck.CategoryFasteners, need.pack.Subcategory, need.pack.Key))
	}
	return hw, nil
}

// FastenerDemand sums the loose nails and screws the connector lines take.
func FastenerDemand(hw deck.Hardware) (nails, screws int) {
	for _, group := range [][]deck.TakeoffItem{hw.JoistHangers, hw.StructuralTies, hw.PostConnections} {
		for _, it := range group {
			m, err := Lookup(it.Key)
			if err != nil {
				continue
			}
			nails += it.Quantity * m.Nails
			screws += it.Quantity * m.Screws
		}
	}
	return nails, screws
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
