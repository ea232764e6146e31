package deck

import "math"

// Input is the raw structure request as received from a caller. Optional
// and required fields are both pointers or strings so the validator can
// tell "absent" from "zero".
type Input struct {
	WidthFt              *float64 `json:"width_ft"`
	LengthFt             *float64 `json:"length_ft"`
	HeightFt             *float64 `json:"height_ft"`
	Attachment           string   `json:"attachment"`
	BeamStyleOuter       string   `json:"beam_style_outer,omitempty"`
	BeamStyleInner       string   `json:"beam_style_inner,omitempty"`
	FootingType          string   `json:"footing_type"`
	SpeciesGrade         string   `json:"species_grade"`
	ForcedJoistSpacingIn *float64 `json:"forced_joist_spacing_in,omitempty"`
	DeckingType          string   `json:"decking_type"`
	OptimizationGoal     string   `json:"optimization_goal,omitempty"`
}

// Request is a validated structure request. Beam styles are empty until
// layout.ResolveBeamStyles fills them in.
type Request struct {
	WidthFt              float64    `json:"width_ft"`
	LengthFt             float64    `json:"length_ft"`
	HeightFt             float64    `json:"height_ft"`
	Attachment           Attachment `json:"attachment"`
	BeamStyleOuter       BeamStyle  `json:"beam_style_outer,omitempty"`
	BeamStyleInner       BeamStyle  `json:"beam_style_inner,omitempty"`
	FootingType          Footing    `json:"footing_type"`
	SpeciesGrade         Species    `json:"species_grade"`
	ForcedJoistSpacingIn int        `json:"forced_joist_spacing_in,omitempty"`
	DeckingType          Decking    `json:"decking_type"`
	OptimizationGoal     Goal       `json:"optimization_goal"`
}

type JoistSpec struct {
	Size          string      `json:"size"`
	SpacingIn     int         `json:"spacing_in"`
	SpanFt        float64     `json:"span_ft"`
	BackSpanFt    float64     `json:"back_span_ft"`
	CantileverFt  float64     `json:"cantilever_ft"`
	Orientation   Orientation `json:"orientation"`
	Count         int         `json:"count"`
	EndJoists     int         `json:"end_joists"`
	TotalLengthFt float64     `json:"total_length_ft"`
	AllowableFt   float64     `json:"allowable_span_ft"`
	MaterialCost  float64     `json:"material_cost"`
}

// Reserve is the unused fraction of the allowable back-span.
func (j JoistSpec) Reserve() float64 {
	if j.AllowableFt <= 0 {
		return 0
	}
	return (j.AllowableFt - j.BackSpanFt) / j.AllowableFt
}

type BeamSegment struct {
	StartFt  float64 `json:"start_ft"`
	LengthFt float64 `json:"length_ft"`
	Spliced  bool    `json:"spliced"`
}

// BeamSpec describes one beam line. A ledger entry carries only its
// position, style and span; it has no size and no posts.
type BeamSpec struct {
	Position      Position      `json:"position"`
	Style         BeamStyle     `json:"style"`
	Size          string        `json:"size,omitempty"`
	Dimension     string        `json:"dimension,omitempty"`
	PlyCount      int           `json:"plyCount,omitempty"`
	SpanFt        float64       `json:"span_ft"`
	JoistSpanKey  float64       `json:"joist_span_key,omitempty"`
	AllowableFt   float64       `json:"allowable_span_ft,omitempty"`
	PostSpacingFt float64       `json:"post_spacing_ft,omitempty"`
	PostCount     int           `json:"post_count,omitempty"`
	Segments      []BeamSegment `json:"segments,omitempty"`
}

func (b BeamSpec) IsLedger() bool { return b.Style == StyleLedger }

func (b BeamSpec) Reserve() float64 {
	if b.AllowableFt <= 0 {
		return 0
	}
	return (b.AllowableFt - b.PostSpacingFt) / b.AllowableFt
}

type PostSpec struct {
	XFt      float64  `json:"x_ft"`
	YFt      float64  `json:"y_ft"`
	Beam     Position `json:"beam"`
	HeightFt float64  `json:"height_ft"`
	Size     string   `json:"size"`
}

// Frame is the selected structure the takeoff and checks operate on.
type Frame struct {
	Request Request    `json:"request"`
	Joists  JoistSpec  `json:"joists"`
	Beams   []BeamSpec `json:"beams"`
	Posts   []PostSpec `json:"posts"`
}

// StructuralBeams returns the beams that are carried on posts.
func (f Frame) StructuralBeams() []BeamSpec {
	out := make([]BeamSpec, 0, len(f.Beams))
	for _, b := range f.Beams {
		if !b.IsLedger() {
			out = append(out, b)
		}
	}
	return out
}

type TakeoffItem struct {
	Description  string   `json:"description"`
	Quantity     int      `json:"quantity"`
	Unit         string   `json:"unit"`
	UnitCost     float64  `json:"unit_cost"`
	ExtendedCost float64  `json:"extended_cost"`
	Category     Category `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Key          string   `json:"key,omitempty"`
}

// Hardware groups the connector and fastener lines of a takeoff.
type Hardware struct {
	JoistHangers    []TakeoffItem `json:"joist_hangers"`
	StructuralTies  []TakeoffItem `json:"structural_ties"`
	PostConnections []TakeoffItem `json:"post_connections"`
	Fasteners       []TakeoffItem `json:"fasteners"`
}

func (h Hardware) Items() []TakeoffItem {
	out := make([]TakeoffItem, 0, len(h.JoistHangers)+len(h.StructuralTies)+len(h.PostConnections)+len(h.Fasteners))
	out = append(out, h.JoistHangers...)
	out = append(out, h.StructuralTies...)
	out = append(out, h.PostConnections...)
	out = append(out, h.Fasteners...)
	return out
}

// Count sums the quantity of every line in group whose subcategory matches.
func Count(group []TakeoffItem, subcategory string) int {
	n := 0
	for _, it := range group {
		if it.Subcategory == subcategory {
			n += it.Quantity
		}
	}
	return n
}

type ComplianceReport struct {
	Passes    bool     `json:"passes"`
	Citations []string `json:"citations"`
	Warnings  []string `json:"warnings"`
}

// Metrics carries the figure the optimization goal is judged by.
type Metrics struct {
	TotalBoardFeet     *float64 `json:"total_board_feet,omitempty"`
	MinReserveCapacity *float64 `json:"min_reserve_capacity,omitempty"`
}

type Result struct {
	Input            Request          `json:"input"`
	OptimizationGoal Goal             `json:"optimization_goal"`
	Joists           JoistSpec        `json:"joists"`
	Beams            []BeamSpec       `json:"beams"`
	Posts            []PostSpec       `json:"posts"`
	MaterialTakeoff  []TakeoffItem    `json:"material_takeoff"`
	Metrics          Metrics          `json:"metrics"`
	Compliance       ComplianceReport `json:"compliance"`
}

// TotalCost sums the extended cost of every takeoff line.
func (r Result) TotalCost() float64 {
	total := 0.0
	for _, it := range r.MaterialTakeoff {
		total += it.ExtendedCost
	}
	return total
}

// NewItem builds a takeoff line, extending the cost to the cent.
func NewItem(description string, qty int, unit string, unitCost float64, cat Category, subcategory, key string) TakeoffItem {
	return TakeoffItem{
		Description:  description,
		Quantity:     qty,
		Unit:         unit,
		UnitCost:     unitCost,
		ExtendedCost: math.Round(float64(qty)*unitCost*100) / 100,
		Category:     cat,
		Subcategory:  subcategory,
		Key:          key,
	}
}
