package model

import "strings"

// The helpers below never modify their input; they return a fresh slice
// plus whether anything changed, so callers can skip no-op writes.

// Index returns the position of id, or -1.
func Index(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Appended returns items with it added at the end.
func Appended(items []Item, it Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, it)
}

// Toggled flips Completed on the item with the given id.
func Toggled(items []Item, id string) ([]Item, bool) {
	i := Index(items, id)
	if i < 0 {
		return items, false
	}
	out := Clone(items)
	out[i].Completed = !out[i].Completed
	return out, true
}

// Renamed replaces the title of the item with the given id. Blank titles
// are rejected.
func Renamed(items []Item, id, title string) ([]Item, bool) {
	title = strings.TrimSpace(title)
	i := Index(items, id)
	if i < 0 || title == "" {
		return items, false
	}
	if items[i].Title == title {
		return items, false
	}
	out := Clone(items)
	out[i].Title = title
	return out, true
}

// Without drops the item with the given id.
func Without(items []Item, id string) ([]Item, bool) {
	i := Index(items, id)
	if i < 0 {
		return items, false
	}
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// Pending keeps only the items that are not completed, in order.
func Pending(items []Item) ([]Item, bool) {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Completed {
			out = append(out, it)
		}
	}
	return out, len(out) != len(items)
}

// Stats counts done and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Clone returns a copy of items that is never nil.
func Clone(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
