// Package store defines the capability every item store variant provides.
// The variants live in subpackages and own independent collections.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/idilsaglam/tada/internal/model"
)

// Store holds an ordered collection of items. Operations on unknown ids, and
// adds or updates with a blank title, are silent no-ops.
type Store interface {
	Items() []model.Item
	Add(title string)
	Toggle(id string)
	Update(id, title string)
	Remove(id string)
	ClearCompleted()
	// Subscribe registers fn to run after every effective change.
	Subscribe(fn Listener) (unsubscribe func())
}

// Listener receives the collection after a change.
type Listener func(items []model.Item)

// Variant names a store implementation.
type Variant string

const (
	Observable Variant = "observable"
	Provider   Variant = "provider"
	Reducer    Variant = "reducer"
)

var ErrUnknownVariant = errors.New("unknown store variant")

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{Observable, Provider, Reducer}
}

// SlotKey is the persistence key owned by the variant.
func (v Variant) SlotKey() string {
	switch v {
	case Observable:
		return "todo-storage"
	case Provider:
		return "todo-context"
	case Reducer:
		return "todo-redux"
	}
	return "todo-" + string(v)
}

// Label is the human name shown in the UI.
func (v Variant) Label() string {
	switch v {
	case Observable:
		return "Observable"
	case Provider:
		return "Context Provider"
	case Reducer:
		return "Reducer"
	}
	return string(v)
}

// Next cycles through Variants.
func (v Variant) Next() Variant {
	all := Variants()
	for i, x := range all {
		if x == v {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// ParseVariant resolves a variant name. Aliases from the state libraries the
// variants imitate are accepted too.
func ParseVariant(name string) (Variant, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if v, ok := aliases[n]; ok {
		return v, nil
	}
	for _, v := range Variants() {
		if string(v) == n {
			return v, nil
		}
	}
	if s := suggest(n); s != "" {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownVariant, name, s)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownVariant, name)
}

var aliases = map[string]Variant{
	"zustand": Observable,
	"context": Provider,
	"redux":   Reducer,
}

func suggest(name string) string {
	best, bestDist := "", 3
	for _, v := range Variants() {
		if d := levenshtein.ComputeDistance(name, string(v)); d < bestDist {
			best, bestDist = string(v), d
		}
	}
	return best
}
