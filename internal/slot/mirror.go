package slot

import (
	"github.com/rs/zerolog"

	"github.com/idilsaglam/tada/internal/model"
)

// Mirror binds a store's collection to one key of a Slot. It never fails the
// caller: read and write problems are logged, and a nil *Mirror is a no-op so
// stores can run without persistence.
//
// When the slot cannot be read, the mirror holds back every Save until a Load
// succeeds, so a passing outage never overwrites stored items with a
// collection that never saw them.
type Mirror struct {
	slot Slot
	key  string
	log  zerolog.Logger
	held bool
}

func NewMirror(s Slot, key string, log zerolog.Logger) *Mirror {
	return &Mirror{
		slot: s,
		key:  key,
		log:  log.With().Str("slot", key).Logger(),
	}
}

// Load reads the stored collection. A missing or unreadable value yields an
// empty collection. Entries that cannot be decoded are logged and skipped.
func (m *Mirror) Load() []model.Item {
	if m == nil {
		return []model.Item{}
	}
	b, ok, err := m.slot.Get(m.key)
	if err != nil {
		m.held = true
		m.log.Error().Err(err).Msg("load slot; saves held until a load succeeds")
		return []model.Item{}
	}
	m.held = false
	if !ok {
		return []model.Item{}
	}
	items, problems, err := decode(b)
	if err != nil {
		m.log.Warn().Err(err).Msg("discarding unreadable slot value")
		return []model.Item{}
	}
	for _, p := range problems {
		m.log.Warn().Err(p).Msg("slot entry")
	}
	m.log.Debug().Int("items", len(items)).Msg("slot loaded")
	return items
}

// Save writes the collection.
func (m *Mirror) Save(items []model.Item) {
	if m == nil {
		return
	}
	if m.held {
		m.log.Warn().Int("items", len(items)).Msg("skip save: slot was not loaded")
		return
	}
	b, err := Encode(items)
	if err != nil {
		m.log.Error().Err(err).Msg("encode slot")
		return
	}
	if err := m.slot.Set(m.key, b); err != nil {
		m.log.Error().Err(err).Msg("save slot")
	}
}
