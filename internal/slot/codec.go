package slot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

// Values are stored as {"state":{"todos":[...]},"version":0}. Dates travel as
// RFC 3339 strings and need an explicit decode back into time.Time; older or
// hand-edited payloads may carry other date shapes.

const formatVersion = 0

type envelope struct {
	State   wireState `json:"state"`
	Version int       `json:"version"`
}

type wireState struct {
	Todos []wireItem `json:"todos"`
}

type wireItem struct {
	ID        wireID   `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	CreatedAt wireTime `json:"createdAt"`
}

// wireID accepts both string ids and the numeric millisecond ids written by
// older payloads.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

type wireTime time.Time

func (t wireTime) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.UTC().Format(time.RFC3339Nano))
}

// dateLayouts are tried in order for string dates. Layouts without a zone
// are read in local time, except a bare date which is UTC.
var dateLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05.999999999", time.Local},
	{"2006-01-02T15:04", time.Local},
	{time.DateTime, time.Local},
	{time.DateOnly, time.UTC},
}

// parseCreatedAt takes a date string, epoch milliseconds, or null.
func parseCreatedAt(b json.RawMessage) (time.Time, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return time.Time{}, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}, fmt.Errorf("createdAt: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, nil
		}
		for _, l := range dateLayouts {
			if parsed, err := time.ParseInLocation(l.layout, s, l.loc); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("createdAt: unrecognized date %q", s)
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("createdAt: %w", err)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// Encode serializes a collection for storage.
func Encode(items []model.Item) ([]byte, error) {
	env := envelope{Version: formatVersion, State: wireState{Todos: make([]wireItem, 0, len(items))}}
	for _, it := range items {
		env.State.Todos = append(env.State.Todos, wireItem{
			ID:        wireID(it.ID),
			Title:     it.Title,
			Completed: it.Completed,
			CreatedAt: wireTime(it.CreatedAt),
		})
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// storedEnvelope keeps each todo raw so one bad entry cannot sink the rest.
type storedEnvelope struct {
	State struct {
		Todos []json.RawMessage `json:"todos"`
	} `json:"state"`
}

type storedItem struct {
	ID        wireID          `json:"id"`
	Title     string          `json:"title"`
	Completed bool            `json:"completed"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// Decode parses a stored collection. Entries without an id or title are
// dropped, and so are repeated ids after the first. An entry whose date
// cannot be read keeps a zero CreatedAt. Only a payload that is not an
// envelope at all is an error.
func Decode(b []byte) ([]model.Item, error) {
	items, _, err := decode(b)
	return items, err
}

// decode is Decode plus the per-entry problems it skipped over.
func decode(b []byte) ([]model.Item, []error, error) {
	var env storedEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal: %w", err)
	}
	var problems []error
	seen := make(map[string]struct{}, len(env.State.Todos))
	items := make([]model.Item, 0, len(env.State.Todos))
	for i, raw := range env.State.Todos {
		var w storedItem
		if err := json.Unmarshal(raw, &w); err != nil {
			problems = append(problems, fmt.Errorf("todo %d dropped: %w", i, err))
			continue
		}
		id := string(w.ID)
		if id == "" || w.Title == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		created, err := parseCreatedAt(w.CreatedAt)
		if err != nil {
			problems = append(problems, fmt.Errorf("todo %s: %w", id, err))
		}
		items = append(items, model.Item{
			ID:        id,
			Title:     w.Title,
			Completed: w.Completed,
			CreatedAt: created,
		})
	}
	return items, problems, nil
}
