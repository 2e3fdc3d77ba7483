// Package observable is the minimal store variant: one state value, one set
// primitive, and a list of subscribers. Persistence is a middleware around
// set rather than part of the store.
package observable

import (
	"time"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
)

var _ store.Store = (*Store)(nil)

// State is the whole store value.
type State struct {
	Todos []model.Item
}

// SetFunc applies an update. The update reports whether it changed anything.
type SetFunc func(update func(State) (State, bool))

// Middleware wraps a SetFunc. get returns the current state.
type Middleware func(next SetFunc, get func() State) SetFunc

type Store struct {
	state     State
	set       SetFunc
	mws       []Middleware
	listeners []subscription
	nextID    int
	now       func() time.Time
}

type subscription struct {
	id int
	fn store.Listener
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMiddleware wraps set. Middlewares added first run outermost.
func WithMiddleware(mw Middleware) Option {
	return func(s *Store) { s.mws = append(s.mws, mw) }
}

// New builds a store hydrated from m. A nil m means no persistence.
func New(m *slot.Mirror, opts ...Option) *Store {
	s := &Store{
		state: State{Todos: m.Load()},
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	set := SetFunc(s.apply)
	if m != nil {
		set = Persist(m)(set, s.get)
	}
	for i := len(s.mws) - 1; i >= 0; i-- {
		set = s.mws[i](set, s.get)
	}
	s.set = set
	return s
}

// Persist writes the collection to m after every effective update.
func Persist(m *slot.Mirror) Middleware {
	return func(next SetFunc, get func() State) SetFunc {
		return func(update func(State) (State, bool)) {
			applied := false
			next(func(st State) (State, bool) {
				out, changed := update(st)
				applied = changed
				return out, changed
			})
			if applied {
				m.Save(get().Todos)
			}
		}
	}
}

func (s *Store) get() State { return s.state }

func (s *Store) apply(update func(State) (State, bool)) {
	next, changed := update(s.state)
	if !changed {
		return
	}
	s.state = next
	for _, sub := range s.listeners {
		sub.fn(model.Clone(next.Todos))
	}
}

func (s *Store) Subscribe(fn store.Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) Items() []model.Item { return model.Clone(s.state.Todos) }

func (s *Store) Add(title string) {
	s.set(func(st State) (State, bool) {
		it, ok := model.NewItem(title, s.now())
		if !ok {
			return st, false
		}
		return State{Todos: model.Appended(st.Todos, it)}, true
	})
}

func (s *Store) Toggle(id string) {
	s.set(func(st State) (State, bool) {
		todos, changed := model.Toggled(st.Todos, id)
		return State{Todos: todos}, changed
	})
}

func (s *Store) Update(id, title string) {
	s.set(func(st State) (State, bool) {
		todos, changed := model.Renamed(st.Todos, id, title)
		return State{Todos: todos}, changed
	})
}

func (s *Store) Remove(id string) {
	s.set(func(st State) (State, bool) {
		todos, changed := model.Without(st.Todos, id)
		return State{Todos: todos}, changed
	})
}

func (s *Store) ClearCompleted() {
	s.set(func(st State) (State, bool) {
		todos, changed := model.Pending(st.Todos)
		return State{Todos: todos}, changed
	})
}
