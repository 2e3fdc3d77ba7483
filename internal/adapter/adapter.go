// Package adapter gives the views one set of item operations regardless of
// which store variant is active. Each variant keeps its own collection, so
// switching never moves or merges items.
package adapter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/observable"
	"github.com/idilsaglam/tada/internal/store/provider"
	"github.com/idilsaglam/tada/internal/store/reducer"
)

// Listener is told which variant changed and what it now holds. Switching
// the active variant also notifies, with the new variant's items.
type Listener func(active store.Variant, items []model.Item)

type Adapter struct {
	stores    map[store.Variant]store.Store
	order     []store.Variant
	active    store.Variant
	listeners []Listener
	log       zerolog.Logger
}

// Options controls how Build wires the variants.
type Options struct {
	Active  store.Variant
	Persist bool
	Log     zerolog.Logger
}

// Build creates all three variants. With Persist set each one mirrors to its
// own key in s; s may be nil when Persist is false.
func Build(ctx context.Context, s slot.Slot, opt Options) (*Adapter, error) {
	mirror := func(v store.Variant) *slot.Mirror {
		if !opt.Persist || s == nil {
			return nil
		}
		return slot.NewMirror(s, v.SlotKey(), opt.Log)
	}

	// The provider variant is reached the way its consumers would: through
	// the context it was attached to.
	ctx = provider.WithProvider(ctx, provider.New(mirror(store.Provider)))

	stores := map[store.Variant]store.Store{
		store.Observable: observable.New(mirror(store.Observable)),
		store.Provider:   provider.FromContext(ctx),
		store.Reducer:    reducer.New(mirror(store.Reducer)),
	}
	return New(opt.Active, stores, opt.Log)
}

// New wraps already constructed stores. active must be one of them; an
// empty active picks the first variant in store.Variants order.
func New(active store.Variant, stores map[store.Variant]store.Store, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{stores: stores, log: log}
	for _, v := range store.Variants() {
		if _, ok := stores[v]; ok {
			a.order = append(a.order, v)
		}
	}
	if len(a.order) == 0 {
		return nil, fmt.Errorf("adapter: no stores")
	}
	if active == "" {
		active = a.order[0]
	}
	if _, ok := stores[active]; !ok {
		return nil, fmt.Errorf("%w %q", store.ErrUnknownVariant, string(active))
	}
	a.active = active

	for _, v := range a.order {
		stores[v].Subscribe(func(items []model.Item) {
			a.log.Debug().Str("variant", string(v)).Int("items", len(items)).Msg("store changed")
			if v == a.active {
				a.notify(items)
			}
		})
	}
	return a, nil
}

func (a *Adapter) notify(items []model.Item) {
	for _, fn := range a.listeners {
		fn(a.active, model.Clone(items))
	}
}

func (a *Adapter) current() store.Store { return a.stores[a.active] }

// Active returns the variant currently backing the adapter.
func (a *Adapter) Active() store.Variant { return a.active }

// Variants lists the variants this adapter can switch to.
func (a *Adapter) Variants() []store.Variant {
	out := make([]store.Variant, len(a.order))
	copy(out, a.order)
	return out
}

// Switch makes v the active variant. An unknown v is an error and leaves the
// active variant unchanged.
func (a *Adapter) Switch(v store.Variant) error {
	if _, ok := a.stores[v]; !ok {
		return fmt.Errorf("%w %q", store.ErrUnknownVariant, string(v))
	}
	if v == a.active {
		return nil
	}
	a.log.Info().Str("from", string(a.active)).Str("to", string(v)).Msg("switch store")
	a.active = v
	a.notify(a.current().Items())
	return nil
}

// Cycle switches to the next variant and returns it.
func (a *Adapter) Cycle() store.Variant {
	for i, v := range a.order {
		if v == a.active {
			_ = a.Switch(a.order[(i+1)%len(a.order)])
			break
		}
	}
	return a.active
}

// Subscribe registers fn for changes of the active variant and for switches.
func (a *Adapter) Subscribe(fn Listener) {
	a.listeners = append(a.listeners, fn)
}

// Stats counts done and pending items of the active variant.
func (a *Adapter) Stats() (done, pending int) {
	return model.Stats(a.current().Items())
}

// Count reports how many items variant v holds.
func (a *Adapter) Count(v store.Variant) int {
	s, ok := a.stores[v]
	if !ok {
		return 0
	}
	return len(s.Items())
}

func (a *Adapter) Items() []model.Item     { return a.current().Items() }
func (a *Adapter) Add(title string)        { a.current().Add(title) }
func (a *Adapter) Toggle(id string)        { a.current().Toggle(id) }
func (a *Adapter) Update(id, title string) { a.current().Update(id, title) }
func (a *Adapter) Remove(id string)        { a.current().Remove(id) }
func (a *Adapter) ClearCompleted()         { a.current().ClearCompleted() }
