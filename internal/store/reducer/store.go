package reducer

import (
	"slices"
	"time"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	state     State
	reduce    Reducer
	mirror    *slot.Mirror
	listeners []subscription
	nextID    int
	now       func() time.Time
}

type subscription struct {
	id int
	fn store.Listener
}

// New returns a store hydrated from m. A nil m means no persistence.
func New(m *slot.Mirror) *Store {
	s := &Store{reduce: Reduce, mirror: m, now: time.Now}
	s.state = s.reduce(State{Todos: []model.Item{}}, Hydrate(m.Load()))
	return s
}

// GetState returns a copy of the current state.
func (s *Store) GetState() State {
	return State{Todos: model.Clone(s.state.Todos)}
}

// Dispatch runs a through the reducer. Subscribers and the slot only hear
// about actions that changed the state.
func (s *Store) Dispatch(a Action) {
	next := s.reduce(s.state, a)
	if slices.Equal(next.Todos, s.state.Todos) {
		return
	}
	s.state = next
	s.mirror.Save(next.Todos)
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

func (s *Store) Items() []model.Item     { return s.GetState().Todos }
func (s *Store) Add(title string)        { s.Dispatch(AddTodo(title, s.now())) }
func (s *Store) Toggle(id string)        { s.Dispatch(ToggleTodo(id)) }
func (s *Store) Update(id, title string) { s.Dispatch(UpdateTodo(id, title)) }
func (s *Store) Remove(id string)        { s.Dispatch(DeleteTodo(id)) }
func (s *Store) ClearCompleted()         { s.Dispatch(ClearCompleted()) }
