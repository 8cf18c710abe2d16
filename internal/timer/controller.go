// Package timer implements the interval (pomodoro) countdown engine:
// three modes, drift-resistant remaining-time computation, automatic
// mode transitions, and completion events for external consumers.
package timer

import (
	"time"

	"studyhub/backend/internal/model"
)

// Controller runs a single countdown. Remaining time is always
// recomputed from the wall-clock instant the run started plus the
// remaining-time snapshot taken at that instant, never by per-tick
// decrement, so scheduling jitter cannot accumulate into drift.
type Controller struct {
	mode      string
	running   bool
	remaining int
	snapshot  int
	startedAt time.Time

	completedFocus int
	settings       model.TimerSettings
	now            func() time.Time

	onModeComplete func(mode string)
	onBreakEarned  func(seconds int)
}

// New builds a paused focus-mode controller. A nil clock defaults to
// time.Now; tests inject their own.
func New(settings model.TimerSettings, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	settings = sanitizeSettings(settings)
	return &Controller{
		mode:      model.ModeFocus,
		remaining: settings.DurationSeconds(model.ModeFocus),
		settings:  settings,
		now:       now,
	}
}

// OnModeComplete registers the handler fired once when a countdown
// reaches zero, carrying the mode that finished.
func (c *Controller) OnModeComplete(fn func(mode string)) { c.onModeComplete = fn }

// OnBreakEarned registers the handler fired when a focus completion
// earns a break, carrying the break's configured duration in seconds.
func (c *Controller) OnBreakEarned(fn func(seconds int)) { c.onBreakEarned = fn }

func (c *Controller) Mode() string { return c.mode }

func (c *Controller) Running() bool { return c.running }

func (c *Controller) CompletedFocusSessions() int { return c.completedFocus }

func (c *Controller) Settings() model.TimerSettings { return c.settings }

// RestoreCompletedFocusSessions seeds the counter from persisted
// state. It never lowers the counter.
func (c *Controller) RestoreCompletedFocusSessions(n int) {
	if n > c.completedFocus {
		c.completedFocus = n
	}
}

// Remaining reports the live remaining seconds, clamped at zero.
func (c *Controller) Remaining() int {
	if !c.running {
		if c.remaining < 0 {
			return 0
		}
		return c.remaining
	}
	elapsed := int(c.now().Sub(c.startedAt).Seconds())
	remaining := c.snapshot - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start moves the current mode from paused to running. Starting a
// countdown that is already at zero rewinds it to the mode's full
// duration first. Returns false when already running.
func (c *Controller) Start() bool {
	if c.running {
		return false
	}
	if c.remaining <= 0 {
		c.remaining = c.settings.DurationSeconds(c.mode)
	}
	c.snapshot = c.remaining
	c.startedAt = c.now()
	c.running = true
	return true
}

// Pause freezes the countdown at its last computed value.
func (c *Controller) Pause() {
	if !c.running {
		return
	}
	c.remaining = c.Remaining()
	c.running = false
}

// Tick drives completion detection. It is a no-op unless the computed
// remaining time has reached zero while running; a late tick that
// overshoots the deadline still completes exactly once because
// completion stops the run.
func (c *Controller) Tick() {
	if !c.running {
		return
	}
	if c.Remaining() > 0 {
		return
	}
	c.complete()
}

func (c *Controller) complete() {
	finished := c.mode
	c.running = false
	c.remaining = 0

	if c.onModeComplete != nil {
		c.onModeComplete(finished)
	}

	if finished == model.ModeFocus {
		c.completedFocus++
		next := model.ModeShortBreak
		if c.completedFocus%c.settings.LongBreakInterval == 0 {
			next = model.ModeLongBreak
		}
		if c.onBreakEarned != nil {
			c.onBreakEarned(c.settings.DurationSeconds(next))
		}
		c.mode = next
		c.remaining = c.settings.DurationSeconds(next)
		if c.settings.AutoStartBreaks {
			c.Start()
		}
		return
	}

	c.mode = model.ModeFocus
	c.remaining = c.settings.DurationSeconds(model.ModeFocus)
	if c.settings.AutoStartFocus {
		c.Start()
	}
}

// Skip advances to the next mode exactly as a completion would, except
// the focus counter is untouched, no events fire, and the new mode is
// always paused.
func (c *Controller) Skip() {
	c.running = false
	if c.mode == model.ModeFocus {
		next := model.ModeShortBreak
		if (c.completedFocus+1)%c.settings.LongBreakInterval == 0 {
			next = model.ModeLongBreak
		}
		c.mode = next
	} else {
		c.mode = model.ModeFocus
	}
	c.remaining = c.settings.DurationSeconds(c.mode)
}

// SetMode switches to an explicit mode, resetting the countdown to
// that mode's duration and pausing. Unknown modes are rejected.
func (c *Controller) SetMode(mode string) bool {
	if !model.ValidMode(mode) {
		return false
	}
	c.mode = mode
	c.running = false
	c.remaining = c.settings.DurationSeconds(mode)
	return true
}

// UpdateSettings applies the valid fields of next and keeps the
// current value for any field that fails validation (non-positive
// minutes, interval below one). Boolean flags always apply. When the
// current mode's duration changed and the timer is paused, the
// remaining time is reset to the new duration; a running countdown is
// never resized mid-run. Returns the settings actually in effect.
func (c *Controller) UpdateSettings(next model.TimerSettings) model.TimerSettings {
	applied := c.settings

	if next.FocusMinutes > 0 {
		applied.FocusMinutes = next.FocusMinutes
	}
	if next.ShortBreakMinutes > 0 {
		applied.ShortBreakMinutes = next.ShortBreakMinutes
	}
	if next.LongBreakMinutes > 0 {
		applied.LongBreakMinutes = next.LongBreakMinutes
	}
	if next.LongBreakInterval >= 1 {
		applied.LongBreakInterval = next.LongBreakInterval
	}
	applied.AutoStartBreaks = next.AutoStartBreaks
	applied.AutoStartFocus = next.AutoStartFocus
	applied.SoundEnabled = next.SoundEnabled

	oldDuration := c.settings.DurationSeconds(c.mode)
	c.settings = applied

	if !c.running && applied.DurationSeconds(c.mode) != oldDuration {
		c.remaining = applied.DurationSeconds(c.mode)
	}
	return applied
}

func sanitizeSettings(s model.TimerSettings) model.TimerSettings {
	defaults := model.DefaultTimerSettings()
	if s.FocusMinutes <= 0 {
		s.FocusMinutes = defaults.FocusMinutes
	}
	if s.ShortBreakMinutes <= 0 {
		s.ShortBreakMinutes = defaults.ShortBreakMinutes
	}
	if s.LongBreakMinutes <= 0 {
		s.LongBreakMinutes = defaults.LongBreakMinutes
	}
	if s.LongBreakInterval < 1 {
		s.LongBreakInterval = defaults.LongBreakInterval
	}
	return s
}
