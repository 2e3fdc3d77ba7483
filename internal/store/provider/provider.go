// Package provider is the context store variant. A Provider owns the state;
// consumers reach it through a context.Context and work with a Value, a
// snapshot of the todos bundled with the actions bound to the provider.
package provider

import (
	"context"
	"time"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
)

var _ store.Store = (*Provider)(nil)

// Value is what a consumer receives from the provider.
type Value struct {
	Todos          []model.Item
	AddTodo        func(title string)
	ToggleTodo     func(id string)
	DeleteTodo     func(id string)
	UpdateTodo     func(id, title string)
	ClearCompleted func()
}

type Provider struct {
	todos     []model.Item
	mirror    *slot.Mirror
	listeners map[int]store.Listener
	order     []int
	nextID    int
	now       func() time.Time
}

// New returns a provider hydrated from m. A nil m means no persistence.
func New(m *slot.Mirror) *Provider {
	return &Provider{
		todos:     m.Load(),
		mirror:    m,
		listeners: map[int]store.Listener{},
		now:       time.Now,
	}
}

type ctxKey struct{}

// WithProvider makes p reachable from the returned context.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Lookup returns the provider attached to ctx, if any.
func Lookup(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Provider)
	return p, ok && p != nil
}

// FromContext returns the provider attached to ctx and panics when there is
// none; reaching for the store outside a provider is a wiring bug.
func FromContext(ctx context.Context) *Provider {
	p, ok := Lookup(ctx)
	if !ok {
		panic("provider: FromContext must be used within a Provider")
	}
	return p
}

// Value snapshots the current todos together with bound actions.
func (p *Provider) Value() Value {
	return Value{
		Todos: model.Clone(p.todos),
		AddTodo: func(title string) {
			it, ok := model.NewItem(title, p.now())
			if !ok {
				return
			}
			p.setTodos(model.Appended(p.todos, it), true)
		},
		ToggleTodo: func(id string) {
			p.setTodos(model.Toggled(p.todos, id))
		},
		DeleteTodo: func(id string) {
			p.setTodos(model.Without(p.todos, id))
		},
		UpdateTodo: func(id, title string) {
			p.setTodos(model.Renamed(p.todos, id, title))
		},
		ClearCompleted: func() {
			p.setTodos(model.Pending(p.todos))
		},
	}
}

func (p *Provider) setTodos(todos []model.Item, changed bool) {
	if !changed {
		return
	}
	p.todos = todos
	p.mirror.Save(todos)
	for _, id := range p.order {
		p.listeners[id](model.Clone(todos))
	}
}

func (p *Provider) Subscribe(fn store.Listener) func() {
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.order = append(p.order, id)
	return func() {
		if _, ok := p.listeners[id]; !ok {
			return
		}
		delete(p.listeners, id)
		for i, x := range p.order {
			if x == id {
				p.order = append(p.order[:i:i], p.order[i+1:]...)
				break
			}
		}
	}
}

func (p *Provider) Items() []model.Item     { return p.Value().Todos }
func (p *Provider) Add(title string)        { p.Value().AddTodo(title) }
func (p *Provider) Toggle(id string)        { p.Value().ToggleTodo(id) }
func (p *Provider) Update(id, title string) { p.Value().UpdateTodo(id, title) }
func (p *Provider) Remove(id string)        { p.Value().DeleteTodo(id) }
func (p *Provider) ClearCompleted()         { p.Value().ClearCompleted() }
