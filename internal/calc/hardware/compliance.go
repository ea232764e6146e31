package hardware

import (
	"fmt"

	"Deckwright/internal/calc/deck"
)

// ValidateCompliance reports connector shortfalls as warnings. It never
// fails; an empty hardware set simply produces every applicable warning.
func ValidateCompliance(f deck.Frame, hw deck.Hardware) []string {
	var warnings []string
	j := f.Joists
	ledger := f.Request.Attachment == deck.AttachLedger

	hangers := deck.Count(hw.JoistHangers, SubStandardHanger) + deck.Count(hw.JoistHangers, SubConcealedHanger)
	if ledger && hangers < j.Count {
		warnings = append(warnings, fmt.Sprintf("ledger needs %d joist hangers, takeoff has %d", j.Count, hangers))
	}
	if HangerLines(f) > 0 && deck.Count(hw.JoistHangers, SubConcealedHanger) == 0 {
		warnings = append(warnings, "end joists have no concealed-flange hangers")
	}
	if j.CantileverFt > HeavyTieOverFt && DropBeams(f) > 0 && countKey(hw.StructuralTies, HeavyHurricaneTie) == 0 {
		warnings = append(warnings, fmt.Sprintf("cantilever of %.2f ft needs %s heavy hurricane ties", j.CantileverFt, HeavyHurricaneTie))
	}
	if ledger {
		if need, have := TensionTies(j.Count), deck.Count(hw.StructuralTies, SubTensionTie); have < need {
			warnings = append(warnings, fmt.Sprintf("ledger needs %d tension ties, takeoff has %d", need, have))
		}
	}
	if caps := deck.Count(hw.PostConnections, SubPostCap); caps < len(f.Posts) {
		warnings = append(warnings, fmt.Sprintf("%d posts but only %d post caps", len(f.Posts), caps))
	}

	nails, screws := FastenerDemand(hw)
	if nails > 0 && deck.Count(hw.Fasteners, SubNails) == 0 {
		warnings = append(warnings, "connectors need nails but none are listed")
	}
	if screws > 0 && deck.Count(hw.Fasteners, SubScrews) == 0 {
		warnings = append(warnings, "connectors need structural screws but none are listed")
	}
	return warnings
}

func countKey(group []deck.TakeoffItem, key string) int {
	n := 0
	for _, it := range group {
		if it.Key == key {
			n += it.Quantity
		}
	}
	return n
}
