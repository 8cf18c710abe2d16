// Package session wires the queue manager and interval timer to the
// shared study accumulators. The coordinator owns the active
// selection, the saved library, the focus-mode flag, and the
// one-second presence ticker that accrues focus time.
package session

import (
	"time"

	"studyhub/backend/internal/model"
	"studyhub/backend/internal/queue"
	"studyhub/backend/internal/timer"
)

// Coordinator bridges the two core state machines. It only calls
// their public operations; each piece of state has exactly one
// writer. Callers serialize access.
//
// The focus presence ticker is deliberately a separate clock from the
// timer's countdown: focus mode can outlive a paused countdown, so
// elapsed presence time and remaining countdown time diverge.
type Coordinator struct {
	queue *queue.Manager
	timer *timer.Controller

	library []model.MediaItem
	active  *model.MediaItem

	focusMode    bool
	elapsedFocus int
	data         model.StudyData

	now func() time.Time

	onModeComplete  func(mode string)
	onFocusRecorded func(date time.Time, durationSeconds int)
}

func New(settings model.TimerSettings, now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	c := &Coordinator{
		queue: queue.NewManager(),
		timer: timer.New(settings, now),
		now:   now,
	}
	c.timer.OnBreakEarned(func(seconds int) {
		c.data.BreakTimeSeconds += seconds
	})
	c.timer.OnModeComplete(func(mode string) {
		if c.onModeComplete != nil {
			c.onModeComplete(mode)
		}
	})
	return c
}

// OnModeComplete registers the external notification hook for timer
// completions.
func (c *Coordinator) OnModeComplete(fn func(mode string)) { c.onModeComplete = fn }

// OnFocusSessionRecorded registers the hook fired when a focus-mode
// exit records a study session.
func (c *Coordinator) OnFocusSessionRecorded(fn func(date time.Time, durationSeconds int)) {
	c.onFocusRecorded = fn
}

func (c *Coordinator) Queue() *queue.Manager { return c.queue }

func (c *Coordinator) Timer() *timer.Controller { return c.timer }

func (c *Coordinator) Data() model.StudyData { return c.data }

// RestoreData seeds the accumulators from persisted state.
func (c *Coordinator) RestoreData(data model.StudyData) { c.data = data }

func (c *Coordinator) FocusMode() bool { return c.focusMode }

func (c *Coordinator) ElapsedFocusSeconds() int { return c.elapsedFocus }

// Tick advances both clocks by one second: the focus presence
// accumulator (while focus mode is on) and the countdown's completion
// detection.
func (c *Coordinator) Tick() {
	if c.focusMode {
		c.elapsedFocus++
		c.data.FocusTimeSeconds++
	}
	c.timer.Tick()
}

// StartTimer starts the countdown; starting a focus interval also
// turns focus mode on.
func (c *Coordinator) StartTimer() {
	started := c.timer.Start()
	if started && c.timer.Mode() == model.ModeFocus {
		c.focusMode = true
	}
}

func (c *Coordinator) PauseTimer() { c.timer.Pause() }

func (c *Coordinator) SkipTimer() { c.timer.Skip() }

func (c *Coordinator) SetTimerMode(mode string) bool { return c.timer.SetMode(mode) }

func (c *Coordinator) UpdateTimerSettings(s model.TimerSettings) model.TimerSettings {
	return c.timer.UpdateSettings(s)
}

// EnterFocusMode turns the presence accumulator on.
func (c *Coordinator) EnterFocusMode() { c.focusMode = true }

// ExitFocusMode turns focus mode off and, when any time accrued,
// records a study session and resets the in-progress counter.
func (c *Coordinator) ExitFocusMode() {
	if c.focusMode && c.elapsedFocus > 0 && c.onFocusRecorded != nil {
		c.onFocusRecorded(c.now(), c.elapsedFocus)
	}
	c.elapsedFocus = 0
	c.focusMode = false
}

// CompleteTask bumps the monotonic task counter.
func (c *Coordinator) CompleteTask() { c.data.CompletedTasks++ }

// Library returns a copy of the saved library in insertion order.
func (c *Coordinator) Library() []model.MediaItem {
	out := make([]model.MediaItem, len(c.library))
	copy(out, c.library)
	return out
}

// RestoreLibrary seeds the saved library from persisted state,
// dropping malformed and duplicate entries.
func (c *Coordinator) RestoreLibrary(items []model.MediaItem) {
	c.library = nil
	for _, item := range items {
		c.AddToLibrary(item)
	}
}

// AddToLibrary keeps item unless its id is empty or already saved.
func (c *Coordinator) AddToLibrary(item model.MediaItem) bool {
	item = item.Normalize()
	if !item.Valid() {
		return false
	}
	for _, existing := range c.library {
		if existing.ID == item.ID {
			return false
		}
	}
	c.library = append(c.library, item)
	return true
}

// RemoveFromLibrary drops the item; removing the active selection
// clears it.
func (c *Coordinator) RemoveFromLibrary(id string) bool {
	for i, item := range c.library {
		if item.ID == id {
			c.library = append(c.library[:i], c.library[i+1:]...)
			if c.active != nil && c.active.ID == id {
				c.active = nil
			}
			return true
		}
	}
	return false
}

// Active returns the current selection, if any.
func (c *Coordinator) Active() (model.MediaItem, bool) {
	if c.active == nil {
		return model.MediaItem{}, false
	}
	return *c.active, true
}

// Play loads an item into the player by explicit user action.
// Malformed items are ignored.
func (c *Coordinator) Play(item model.MediaItem) bool {
	item = item.Normalize()
	if !item.Valid() {
		return false
	}
	c.active = &item
	return true
}

// PlayNext advances the queue and updates the active selection.
func (c *Coordinator) PlayNext() (model.MediaItem, bool) {
	item, ok := c.queue.PlayNext(c.library)
	if ok {
		c.active = &item
	}
	return item, ok
}

// ItemEnded handles the player's end-of-playback signal. When nothing
// follows, the selection is left as-is and playback simply stops.
func (c *Coordinator) ItemEnded() (model.MediaItem, bool) {
	endedID := ""
	if c.active != nil {
		endedID = c.active.ID
	}
	item, ok := c.queue.NextAfterEnded(c.library, endedID)
	if ok {
		c.active = &item
	}
	return item, ok
}

// RemoveFromQueue drops the item from the queue; removing the active
// selection clears it.
func (c *Coordinator) RemoveFromQueue(id string) bool {
	removed := c.queue.Remove(id)
	if removed && c.active != nil && c.active.ID == id {
		c.active = nil
	}
	return removed
}
