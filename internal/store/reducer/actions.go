package reducer

import (
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

// Action is a state transition request understood by Reduce.
type Action interface {
	Type() string
}

const (
	TypeAdd            = "todos/addTodo"
	TypeToggle         = "todos/toggleTodo"
	TypeUpdate         = "todos/updateTodo"
	TypeDelete         = "todos/deleteTodo"
	TypeClearCompleted = "todos/clearCompleted"
	TypeHydrate        = "todos/hydrate"
)

// AddAction carries a fully prepared item so Reduce stays pure.
type AddAction struct {
	Item model.Item
}

type ToggleAction struct {
	ID string
}

type UpdateAction struct {
	ID    string
	Title string
}

type DeleteAction struct {
	ID string
}

type ClearCompletedAction struct{}

// HydrateAction replaces the whole collection, e.g. from storage.
type HydrateAction struct {
	Todos []model.Item
}

func (AddAction) Type() string            { return TypeAdd }
func (ToggleAction) Type() string         { return TypeToggle }
func (UpdateAction) Type() string         { return TypeUpdate }
func (DeleteAction) Type() string         { return TypeDelete }
func (ClearCompletedAction) Type() string { return TypeClearCompleted }
func (HydrateAction) Type() string        { return TypeHydrate }

// AddTodo prepares an AddAction. A blank title yields an action that Reduce
// ignores.
func AddTodo(title string, now time.Time) AddAction {
	it, _ := model.NewItem(title, now)
	return AddAction{Item: it}
}

func ToggleTodo(id string) ToggleAction        { return ToggleAction{ID: id} }
func UpdateTodo(id, title string) UpdateAction { return UpdateAction{ID: id, Title: title} }
func DeleteTodo(id string) DeleteAction        { return DeleteAction{ID: id} }
func ClearCompleted() ClearCompletedAction     { return ClearCompletedAction{} }
func Hydrate(todos []model.Item) HydrateAction { return HydrateAction{Todos: todos} }
