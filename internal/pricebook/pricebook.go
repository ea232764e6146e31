package pricebook

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"Deckwright/internal/calc/deck"

	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultBook []byte

var ErrUnknownPrice = errors.New("no price for item")

// Book is an immutable price snapshot. It is built once and then shared by
// concurrent engine calls; nothing mutates it after Build.
type Book struct {
	prices map[deck.Category]map[string]float64
}

type document struct {
	Lumber    map[string]float64 `yaml:"lumber"`
	Hardware  map[string]float64 `yaml:"hardware"`
	Footings  map[string]float64 `yaml:"footings"`
	Fasteners map[string]float64 `yaml:"fasteners"`
}

func Default() *Book {
	b, err := Load(bytes.NewReader(defaultBook))
	if err != nil {
		panic(fmt.Sprintf("pricebook: embedded book: %v", err))
	}
	return b
}

func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Book, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode price book: %w", err)
	}
	b := NewBuilder()
	sections := []struct {
		cat  deck.Category
		rows map[string]float64
	}{
		{deck.CategoryLumber, doc.Lumber},
		{deck.CategoryHardware, doc.Hardware},
		{deck.CategoryFootings, doc.Footings},
		{deck.CategoryFasteners, doc.Fasteners},
	}
	for _, s := range sections {
		for k, v := range s.rows {
			if err := b.Set(s.cat, k, v); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

func (b *Book) price(cat deck.Category, key string) (float64, error) {
	v, ok := b.prices[cat][key]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownPrice, cat, key)
	}
	return v, nil
}

// Lumber returns the cost per linear foot of a nominal size.
func (b *Book) Lumber(size string) (float64, error) {
	return b.price(deck.CategoryLumber, size)
}

func (b *Book) Hardware(model string) (float64, error) {
	return b.price(deck.CategoryHardware, model)
}

func (b *Book) Footing(f deck.Footing) (float64, error) {
	return b.price(deck.CategoryFootings, string(f))
}

func (b *Book) Fastener(pack string) (float64, error) {
	return b.price(deck.CategoryFasteners, pack)
}

// Keys lists the priced keys of a category in sorted order.
func (b *Book) Keys(cat deck.Category) []string {
	out := make([]string, 0, len(b.prices[cat]))
	for k := range b.prices[cat] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Requirement names one price the caller depends on.
type Requirement struct {
	Category deck.Category
	Key      string
}

// Validate reports every required price missing from the book.
func (b *Book) Validate(required []Requirement) error {
	var missing []error
	for _, r := range required {
		if _, err := b.price(r.Category, r.Key); err != nil {
			missing = append(missing, err)
		}
	}
	return errors.Join(missing...)
}

// Builder assembles a Book from individual rows.
type Builder struct {
	prices map[deck.Category]map[string]float64
}

func NewBuilder() *Builder {
	return &Builder{prices: make(map[deck.Category]map[string]float64)}
}

func (b *Builder) Set(cat deck.Category, key string, cost float64) error {
	switch cat {
	case deck.CategoryLumber, deck.CategoryHardware, deck.CategoryFootings, deck.CategoryFasteners:
	default:
		return fmt.Errorf("unknown price category %q", cat)
	}
	if key == "" {
		return fmt.Errorf("%s: empty price key", cat)
	}
	if cost < 0 {
		return fmt.Errorf("%s %q: negative cost %.2f", cat, key, cost)
	}
	if b.prices[cat] == nil {
		b.prices[cat] = make(map[string]float64)
	}
	b.prices[cat][key] = cost
	return nil
}

// Build copies the accumulated rows into a new Book; later Set calls do
// not affect books already built.
func (b *Builder) Build() *Book {
	out := make(map[deck.Category]map[string]float64, len(b.prices))
	for cat, rows := range b.prices {
		m := make(map[string]float64, len(rows))
		for k, v := range rows {
			m[k] = v
		}
		out[cat] = m
	}
	return &Book{prices: out}
}
