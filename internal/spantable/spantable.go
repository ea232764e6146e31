package spantable

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"Deckwright/internal/calc/deck"

	"gopkg.in/yaml.v3"
)

//go:embed data/irc2021.yaml
var defaultTable []byte

var (
	ErrSpeciesUnknown = errors.New("species/grade not in span table")
	ErrDeckingUnknown = errors.New("decking type not in span table")
	ErrNoEntry        = errors.New("no span table entry")
)

// JoistSpanLadder is the set of joist-span keys the beam table is indexed by.
var JoistSpanLadder = []float64{6, 7, 8, 9, 10, 11, 12, 14, 16, 18, 20}

// Provider is the read-only span table the engine consumes.
type Provider interface {
	AllowableJoistSpan(species deck.Species, size string, spacingIn int) (float64, error)
	AllowableBeamSpan(species deck.Species, plyDimension string, joistSpanKey float64) (float64, error)
	MaxDeckingSpacing(decking deck.Decking) (int, error)
	Citations() Citations
}

type Citations struct {
	Joists     string `yaml:"joists" json:"joists"`
	Beams      string `yaml:"beams" json:"beams"`
	Decking    string `yaml:"decking" json:"decking"`
	Cantilever string `yaml:"cantilever" json:"cantilever"`
}

type document struct {
	Edition   string                                  `yaml:"edition"`
	Citations Citations                               `yaml:"citations"`
	Decking   map[string]int                          `yaml:"decking"`
	Joists    map[string]map[string]map[int]FeetInches `yaml:"joists"`
	Beams     map[string]map[string]map[int]FeetInches `yaml:"beams"`
}

// Table is an immutable span table parsed from YAML.
type Table struct {
	edition   string
	citations Citations
	decking   map[deck.Decking]int
	joists    map[deck.Species]map[string]map[int]float64
	beams     map[deck.Species]map[string]map[int]float64
}

func Default() *Table {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic(fmt.Sprintf("spantable: embedded table: %v", err))
	}
	return t
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Table, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode span table: %w", err)
	}
	if len(doc.Joists) == 0 || len(doc.Beams) == 0 {
		return nil, fmt.Errorf("span table needs joist and beam sections")
	}
	t := &Table{
		edition:   doc.Edition,
		citations: doc.Citations,
		decking:   make(map[deck.Decking]int, len(doc.Decking)),
		joists:    convert(doc.Joists),
		beams:     convert(doc.Beams),
	}
	for k, v := range doc.Decking {
		if v <= 0 {
			return nil, fmt.Errorf("decking %q: spacing must be positive", k)
		}
		t.decking[deck.Decking(k)] = v
	}
	return t, nil
}

func convert(in map[string]map[string]map[int]FeetInches) map[deck.Species]map[string]map[int]float64 {
	out := make(map[deck.Species]map[string]map[int]float64, len(in))
	for species, sizes := range in {
		m := make(map[string]map[int]float64, len(sizes))
		for size, cells := range sizes {
			row := make(map[int]float64, len(cells))
			for k, v := range cells {
				row[k] = float64(v)
			}
			m[size] = row
		}
		out[deck.Species(species)] = m
	}
	return out
}

func (t *Table) Edition() string { return t.edition }

func (t *Table) Citations() Citations { return t.citations }

func (t *Table) AllowableJoistSpan(species deck.Species, size string, spacingIn int) (float64, error) {
	return lookup(t.joists, species, size, spacingIn)
}

func (t *Table) AllowableBeamSpan(species deck.Species, plyDimension string, joistSpanKey float64) (float64, error) {
	return lookup(t.beams, species, plyDimension, int(joistSpanKey))
}

func (t *Table) MaxDeckingSpacing(decking deck.Decking) (int, error) {
	v, ok := t.decking[decking]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrDeckingUnknown, decking)
	}
	return v, nil
}

// Species lists the species/grades the table carries, sorted.
func (t *Table) Species() []deck.Species {
	out := make([]deck.Species, 0, len(t.joists))
	for s := range t.joists {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lookup(m map[deck.Species]map[string]map[int]float64, species deck.Species, member string, key int) (float64, error) {
	sizes, ok := m[species]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSpeciesUnknown, species)
	}
	row, ok := sizes[member]
	if !ok {
		return 0, fmt.Errorf("%w: %s %s", ErrNoEntry, species, member)
	}
	v, ok := row[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s %s at %d", ErrNoEntry, species, member, key)
	}
	return v, nil
}

// RoundJoistSpan rounds a joist span up to the next ladder key.
func RoundJoistSpan(spanFt float64) (float64, bool) {
	for _, k := range JoistSpanLadder {
		if spanFt <= k+1e-9 {
			return k, true
		}
	}
	return 0, false
}

// FeetInches is a span written as "ft-in" in the table source.
type FeetInches float64

func (f *FeetInches) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseFeetInches(node.Value)
	if err != nil {
		return err
	}
	*f = FeetInches(v)
	return nil
}

// ParseFeetInches parses "12-6" (12 ft 6 in) or a plain decimal foot value.
func ParseFeetInches(s string) (float64, error) {
	s = strings.TrimSpace(s)
	ft, in, found := strings.Cut(s, "-")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("span %q: %w", s, err)
		}
		return v, nil
	}
	feet, err := strconv.Atoi(ft)
	if err != nil {
		return 0, fmt.Errorf("span %q: bad feet", s)
	}
	inches, err := strconv.Atoi(in)
	if err != nil || inches < 0 || inches >= 12 {
		return 0, fmt.Errorf("span %q: bad inches", s)
	}
	return float64(feet) + float64(inches)/12.0, nil
}

// PlyDimension builds the beam table key, e.g. "2-2x10".
func PlyDimension(ply int, dimension string) string {
	return fmt.Sprintf("%d-%s", ply, dimension)
}
