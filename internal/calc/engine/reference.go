package engine

import (
	"Deckwright/internal/pricebook"
	"Deckwright/internal/spantable"
)

// LoadReference reads YAML overrides of the embedded span tables and price
// book. An empty path keeps the default. The price book is checked for
// completeness either way.
func LoadReference(tablesPath, pricesPath string) (Reference, error) {
	var ref Reference
	if tablesPath != "" {
		t, err := spantable.LoadFile(tablesPath)
		if err != nil {
			return Reference{}, err
		}
		ref.Tables = t
	}
	if pricesPath != "" {
		b, err := pricebook.LoadFile(pricesPath)
		if err != nil {
			return Reference{}, err
		}
		ref.Prices = b
	}
	ref = ref.withDefaults()
	if err := CheckPrices(ref.Prices); err != nil {
		return Reference{}, err
	}
	return ref, nil
}
