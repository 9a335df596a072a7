package billing

import (
	"slices"
	"sort"
)

// CategoryFields maps a stock category to the ordered measurement fields a
// tailor records for it. It is built from configuration and passed to whoever
// needs it; nothing reads it from package state.
type CategoryFields map[string][]string

// DefaultCategoryFields returns the categories a fresh shop starts with.
func DefaultCategoryFields() CategoryFields {
	return CategoryFields{
		"Coat/Shafari": {"length", "chest", "waist", "hip", "shoulder", "sleeve", "neck", "cross_back", "cross_front"},
		"Shirt":        {"length", "chest", "waist", "hip", "shoulder", "sleeve", "neck", "k.f"},
		"Pants":        {"length", "waist", "hip", "thigh", "knee", "bottom"},
		"Fabric":       {"length", "width"},
		"Accessories":  {"size"},
	}
}

// Fields returns a copy of the ordered fields for category, or nil if the
// category is unknown.
func (c CategoryFields) Fields(category string) []string {
	return slices.Clone(c[category])
}

// Has reports whether category is configured.
func (c CategoryFields) Has(category string) bool {
	_, ok := c[category]
	return ok
}

// Names returns the configured categories sorted alphabetically.
func (c CategoryFields) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
