// Package model holds the todo item and the helpers that derive new
// collections from old ones without mutating them.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is the domain model for a todo entry.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewID returns a time-ordered identifier (UUIDv7). IDs minted by one
// process sort in creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewItem builds a pending item. ok is false when the title is blank.
func NewItem(title string, now time.Time) (it Item, ok bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Item{}, false
	}
	return Item{ID: NewID(), Title: title, CreatedAt: now}, true
}
