package deck

type Attachment string

const (
	AttachLedger Attachment = "ledger"
	AttachFree   Attachment = "free"
)

type BeamStyle string

const (
	StyleDrop   BeamStyle = "drop"
	StyleInline BeamStyle = "inline"
	StyleLedger BeamStyle = "ledger"
)

type Footing string

const (
	FootingHelical  Footing = "helical"
	FootingConcrete Footing = "concrete"
	FootingSurface  Footing = "surface"
)

type Species string

const (
	SpeciesSYP2 Species = "SYP #2"
	SpeciesDF2  Species = "DF #2"
	SpeciesHF2  Species = "HF #2"
	SpeciesSPF2 Species = "SPF #2"
)

type Decking string

const (
	DeckingWood54      Decking = "wood_5_4"
	DeckingWood2x      Decking = "wood_2x"
	DeckingComposite1  Decking = "composite_1in"
	DeckingComposite54 Decking = "composite_5_4"
)

type Goal string

const (
	GoalCost     Goal = "cost"
	GoalStrength Goal = "strength"
)

type Position string

const (
	PositionOuter Position = "outer"
	PositionInner Position = "inner"
)

type Orientation string

const (
	SpansWidth  Orientation = "spans-width"
	SpansLength Orientation = "spans-length"
)

// Category tags every takeoff line so consumers never parse descriptions.
type Category string

const (
	CategoryLumber    Category = "lumber"
	CategoryHardware  Category = "hardware"
	CategoryFootings  Category = "footings"
	CategoryFasteners Category = "fasteners"
)

var (
	Attachments = []Attachment{AttachLedger, AttachFree}
	Footings    = []Footing{FootingHelical, FootingConcrete, FootingSurface}
	AllSpecies  = []Species{SpeciesSYP2, SpeciesDF2, SpeciesHF2, SpeciesSPF2}
	Deckings    = []Decking{DeckingWood54, DeckingWood2x, DeckingComposite1, DeckingComposite54}
	Goals       = []Goal{GoalCost, GoalStrength}
	Spacings    = []int{12, 16, 24}
)

func (a Attachment) Valid() bool { return a == AttachLedger || a == AttachFree }

func (f Footing) Valid() bool {
	return f == FootingHelical || f == FootingConcrete || f == FootingSurface
}

func (s Species) Valid() bool {
	for _, v := range AllSpecies {
		if v == s {
			return true
		}
	}
	return false
}

func (d Decking) Valid() bool {
	for _, v := range Deckings {
		if v == d {
			return true
		}
	}
	return false
}

func (g Goal) Valid() bool { return g == GoalCost || g == GoalStrength }

func ValidSpacing(in int) bool {
	for _, s := range Spacings {
		if s == in {
			return true
		}
	}
	return false
}
