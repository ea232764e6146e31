package hardware

import "fmt"

// Subcategories tagged on hardware takeoff lines.
const (
	SubStandardHanger  = "standard_hanger"
	SubConcealedHanger = "concealed_hanger"
	SubTensionTie      = "tension_tie"
	SubHurricaneTie    = "hurricane_tie"
	SubPostCap         = "post_cap"
	SubPostBase        = "post_base"
	SubNails           = "nails"
	SubScrews          = "screws"
)

// Model is a connector with the fasteners one unit takes to install.
type Model struct {
	Name        string
	Description string
	Subcategory string
	Nails       int
	Screws      int
}

type Pack struct {
	Key         string
	Description string
	Subcategory string
	Size        int
}

var (
	NailPack  = Pack{Key: "nails_10d_hdg", Description: "10d HDG joist hanger nails, box of 250", Subcategory: SubNails, Size: 250}
	ScrewPack = Pack{Key: "screws_sds", Description: "SDS structural screws, pack of 50", Subcategory: SubScrews, Size: 50}
)

const (
	TensionTie        = "DTT2Z"
	HurricaneTie      = "H2.5A"
	HeavyHurricaneTie = "H10A"
)

// HeavyTieOverFt is the cantilever beyond which drop beams take heavy ties.
const HeavyTieOverFt = 2.0

var catalog = map[string]Model{
	"LUS26":  {Name: "LUS26", Description: "LUS26 face-mount joist hanger", Subcategory: SubStandardHanger, Nails: 8},
	"LUS28":  {Name: "LUS28", Description: "LUS28 face-mount joist hanger", Subcategory: SubStandardHanger, Nails: 10},
	"LUS210": {Name: "LUS210", Description: "LUS210 face-mount joist hanger", Subcategory: SubStandardHanger, Nails: 12},
	"LUS212": {Name: "LUS212", Description: "LUS212 face-mount joist hanger", Subcategory: SubStandardHanger, Nails: 14},
	"HUC26":  {Name: "HUC26", Description: "HUC26 concealed-flange hanger", Subcategory: SubConcealedHanger, Nails: 12},
	"HUC28":  {Name: "HUC28", Description: "HUC28 concealed-flange hanger", Subcategory: SubConcealedHanger, Nails: 14},
	"HUC210": {Name: "HUC210", Description: "HUC210 concealed-flange hanger", Subcategory: SubConcealedHanger, Nails: 18},
	"HUC212": {Name: "HUC212", Description: "HUC212 concealed-flange hanger", Subcategory: SubConcealedHanger, Nails: 22},
	"DTT2Z":  {Name: "DTT2Z", Description: "DTT2Z ledger tension tie", Subcategory: SubTensionTie, Screws: 8},
	"H2.5A":  {Name: "H2.5A", Description: "H2.5A hurricane tie", Subcategory: SubHurricaneTie, Nails: 10},
	"H10A":   {Name: "H10A", Description: "H10A heavy hurricane tie", Subcategory: SubHurricaneTie, Nails: 18},
	"BC4":    {Name: "BC4", Description: "BC4 post cap", Subcategory: SubPostCap, Nails: 12},
	"BC6":    {Name: "BC6", Description: "BC6 post cap", Subcategory: SubPostCap, Nails: 16},
	"ABU44Z": {Name: "ABU44Z", Description: "ABU44Z adjustable post base", Subcategory: SubPostBase, Nails: 12},
	"ABU66Z": {Name: "ABU66Z", Description: "ABU66Z adjustable post base", Subcategory: SubPostBase, Nails: 14},
}

func Lookup(name string) (Model, error) {
	m, ok := catalog[name]
	if !ok {
		return Model{}, fmt.Errorf("unknown hardware model %q", name)
	}
	return m, nil
}

// Models lists every catalog entry name.
func Models() []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	return out
}

func StandardHanger(depthIn int) string  { return fmt.Sprintf("LUS2%d", depthIn) }
func ConcealedHanger(depthIn int) string { return fmt.Sprintf("HUC2%d", depthIn) }

func PostCap(postSize string) string {
	if postSize == "6x6" {
		return "BC6"
	}
	return "BC4"
}

func PostBase(postSize string) string {
	if postSize == "6x6" {
		return "ABU66Z"
	}
	return "ABU44Z"
}
