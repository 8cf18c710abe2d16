// Package queue implements the ordered playback queue and its
// next-item selection under repeat/shuffle policies. The manager is a
// plain in-memory state machine; callers serialize access.
package queue

import (
	"math/rand"
	"time"

	"studyhub/backend/internal/model"
)

type Manager struct {
	items   []model.MediaItem
	repeat  bool
	shuffle bool
	rng     *rand.Rand
}

func NewManager() *Manager {
	return &Manager{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Items returns a copy of the queue contents in order.
func (m *Manager) Items() []model.MediaItem {
	out := make([]model.MediaItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) Len() int { return len(m.items) }

func (m *Manager) Repeat() bool { return m.repeat }

func (m *Manager) Shuffle() bool { return m.shuffle }

// Add appends item unless its id is empty or already queued. Malformed
// items are dropped silently; queue operations never error.
func (m *Manager) Add(item model.MediaItem) bool {
	item = item.Normalize()
	if !item.Valid() {
		return false
	}
	if m.contains(item.ID) {
		return false
	}
	m.items = append(m.items, item)
	return true
}

// Remove drops the item with the given id. Callers that track an
// active selection clear it themselves when it was the removed item.
func (m *Manager) Remove(id string) bool {
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder replaces the queue order wholesale with the caller-supplied
// list. The list is accepted as given; membership is not checked
// against the prior contents. Items without an id are dropped.
func (m *Manager) Reorder(items []model.MediaItem) {
	next := make([]model.MediaItem, 0, len(items))
	for _, item := range items {
		item = item.Normalize()
		if item.Valid() {
			next = append(next, item)
		}
	}
	m.items = next
}

func (m *Manager) Clear() {
	m.items = nil
}

func (m *Manager) ToggleRepeat() bool {
	m.repeat = !m.repeat
	return m.repeat
}

// ToggleShuffle flips the shuffle flag. Turning shuffle on permutes
// the current contents once, in place (Fisher-Yates); turning it off
// does not restore the previous order.
func (m *Manager) ToggleShuffle() bool {
	m.shuffle = !m.shuffle
	if m.shuffle && len(m.items) > 1 {
		for i := len(m.items) - 1; i > 0; i-- {
			j := m.rng.Intn(i + 1)
			m.items[i], m.items[j] = m.items[j], m.items[i]
		}
	}
	return m.shuffle
}

// PlayNext pops the head of the queue and returns it for playback.
// With repeat on and the queue otherwise exhausted, the queue refills
// from the saved library minus the item just popped; an empty refill
// leaves the queue legitimately empty.
func (m *Manager) PlayNext(library []model.MediaItem) (model.MediaItem, bool) {
	if len(m.items) == 0 {
		return model.MediaItem{}, false
	}

	head := m.items[0]
	rest := m.items[1:]

	if m.repeat && len(rest) == 0 {
		m.items = withoutID(library, head.ID)
	} else {
		next := make([]model.MediaItem, len(rest))
		copy(next, rest)
		m.items = next
	}
	return head, true
}

// NextAfterEnded selects what plays after the current item finishes on
// its own. A non-empty queue behaves like PlayNext. Otherwise, with
// repeat on, playback continues from the saved library: a uniform
// random pick (excluding the ended item) under shuffle, or the
// library successor of the ended item with wraparound. With repeat off
// playback stops and the selection is unchanged.
func (m *Manager) NextAfterEnded(library []model.MediaItem, endedID string) (model.MediaItem, bool) {
	if len(m.items) > 0 {
		return m.PlayNext(library)
	}
	if !m.repeat {
		return model.MediaItem{}, false
	}

	candidates := withoutID(library, endedID)
	if len(candidates) == 0 {
		return model.MediaItem{}, false
	}

	if m.shuffle {
		return candidates[m.rng.Intn(len(candidates))], true
	}

	idx := indexOf(library, endedID)
	next := library[(idx+1)%len(library)]
	if next.ID == endedID {
		// Library of one entry, and it just ended.
		return model.MediaItem{}, false
	}
	return next, true
}

func (m *Manager) contains(id string) bool {
	return indexOf(m.items, id) >= 0
}

func indexOf(items []model.MediaItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func withoutID(items []model.MediaItem, id string) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
