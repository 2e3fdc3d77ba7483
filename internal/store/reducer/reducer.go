// Package reducer is the action/reducer store variant. Every change is an
// Action applied by the pure Reduce function; the Store only dispatches,
// notifies subscribers and persists.
package reducer

import (
	"github.com/idilsaglam/tada/internal/model"
)

// State is the reducer's slice of application state.
type State struct {
	Todos []model.Item
}

// Reducer maps a state and an action to the next state. It must not modify
// its input.
type Reducer func(State, Action) State

// Reduce is the todos reducer. Unknown actions return the state unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddAction:
		if a.Item.ID == "" || a.Item.Title == "" || model.Index(s.Todos, a.Item.ID) >= 0 {
			return s
		}
		return State{Todos: model.Appended(s.Todos, a.Item)}
	case ToggleAction:
		todos, _ := model.Toggled(s.Todos, a.ID)
		return State{Todos: todos}
	case UpdateAction:
		todos, _ := model.Renamed(s.Todos, a.ID, a.Title)
		return State{Todos: todos}
	case DeleteAction:
		todos, _ := model.Without(s.Todos, a.ID)
		return State{Todos: todos}
	case ClearCompletedAction:
		todos, changed := model.Pending(s.Todos)
		if !changed {
			return s
		}
		return State{Todos: todos}
	case HydrateAction:
		return State{Todos: model.Clone(a.Todos)}
	}
	return s
}
