package timer_test

import (
	"testing"
	"time"

	"studyhub/backend/internal/model"
	"studyhub/backend/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func settingsWith(focus, short, long, interval int) model.TimerSettings {
	s := model.DefaultTimerSettings()
	s.FocusMinutes = focus
	s.ShortBreakMinutes = short
	s.LongBreakMinutes = long
	s.LongBreakInterval = interval
	return s
}

func TestInitialStateIsPausedFocus(t *testing.T) {
	c := timer.New(model.DefaultTimerSettings(), nil)
	if c.Mode() != model.ModeFocus {
		t.Fatalf("expected focus mode, got %s", c.Mode())
	}
	if c.Running() {
		t.Fatal("timer should start paused")
	}
	if c.Remaining() != model.DefaultFocusMinutes*60 {
		t.Fatalf("expected %d seconds, got %d", model.DefaultFocusMinutes*60, c.Remaining())
	}
}

func TestRemainingDerivedFromWallClock(t *testing.T) {
	clock := newFakeClock()
	c := timer.New(settingsWith(25, 5, 15, 4), clock.Now)

	c.Start()
	clock.Advance(90 * time.Second)
	if got := c.Remaining(); got != 25*60-90 {
		t.Fatalf("expected %d remaining, got %d", 25*60-90, got)
	}

	c.Pause()
	clock.Advance(time.Hour)
	if got := c.Remaining(); got != 25*60-90 {
		t.Fatalf("paused remaining should freeze, got %d", got)
	}
}

func TestLateTickClampsAndCompletesOnce(t *testing.T) {
	clock := newFakeClock()
	s := settingsWith(1, 5, 15, 4)
	s.AutoStartBreaks = false
	c := timer.New(s, clock.Now)

	completions := 0
	c.OnModeComplete(func(mode string) {
		if mode != model.ModeFocus {
			t.Fatalf("expected focus completion, got %s", mode)
		}
		completions++
	})

	c.Start()
	// The tick callback fires late: more wall-clock time elapsed than
	// the countdown had left.
	clock.Advance(95 * time.Second)
	c.Tick()
	c.Tick()

	if completions != 1 {
		t.Fatalf("expected exactly one completion, got %d", completions)
	}
	if c.Remaining() < 0 {
		t.Fatalf("remaining went negative: %d", c.Remaining())
	}
	if c.Mode() != model.ModeShortBreak {
		t.Fatalf("expected transition to short break, got %s", c.Mode())
	}
	if c.Running() {
		t.Fatal("break should not auto-start when disabled")
	}
}

func TestLongBreakCadence(t *testing.T) {
	clock := newFakeClock()
	s := settingsWith(1, 1, 2, 4)
	s.AutoStartBreaks = false
	s.AutoStartFocus = false
	c := timer.New(s, clock.Now)

	earned := []int{}
	c.OnBreakEarned(func(seconds int) { earned = append(earned, seconds) })

	completeFocus := func() {
		if c.Mode() != model.ModeFocus {
			c.SetMode(model.ModeFocus)
		}
		c.Start()
		clock.Advance(61 * time.Second)
		c.Tick()
	}

	for i := 1; i <= 3; i++ {
		completeFocus()
		if c.Mode() != model.ModeShortBreak {
			t.Fatalf("completion %d: expected short break, got %s", i, c.Mode())
		}
	}
	completeFocus()
	if c.Mode() != model.ModeLongBreak {
		t.Fatalf("fourth completion should earn a long break, got %s", c.Mode())
	}
	if c.CompletedFocusSessions() != 4 {
		t.Fatalf("expected 4 completed sessions, got %d", c.CompletedFocusSessions())
	}

	want := []int{60, 60, 60, 120}
	if len(earned) != len(want) {
		t.Fatalf("expected %d break-earned events, got %d", len(want), len(earned))
	}
	for i := range want {
		if earned[i] != want[i] {
			t.Fatalf("break %d: expected %d seconds, got %d", i+1, want[i], earned[i])
		}
	}
}

func TestSkipAdvancesWithoutCounting(t *testing.T) {
	clock := newFakeClock()
	c := timer.New(settingsWith(25, 5, 15, 4), clock.Now)

	earned := 0
	c.OnBreakEarned(func(int) { earned++ })

	c.Start()
	c.Skip()

	if c.Mode() != model.ModeShortBreak {
		t.Fatalf("expected short break after skip, got %s", c.Mode())
	}
	if c.Running() {
		t.Fatal("skip must land paused")
	}
	if c.CompletedFocusSessions() != 0 {
		t.Fatal("skip must not increment the focus counter")
	}
	if earned != 0 {
		t.Fatal("skip must not emit break-earned")
	}

	c.Skip()
	if c.Mode() != model.ModeFocus {
		t.Fatalf("skipping a break returns to focus, got %s", c.Mode())
	}
}

func TestBreakCompletionReturnsToFocus(t *testing.T) {
	clock := newFakeClock()
	s := settingsWith(25, 1, 15, 4)
	s.AutoStartFocus = true
	c := timer.New(s, clock.Now)

	c.SetMode(model.ModeShortBreak)
	c.Start()
	clock.Advance(61 * time.Second)
	c.Tick()

	if c.Mode() != model.ModeFocus {
		t.Fatalf("expected focus after break, got %s", c.Mode())
	}
	if !c.Running() {
		t.Fatal("focus should auto-start when enabled")
	}
	if c.CompletedFocusSessions() != 0 {
		t.Fatal("break completion must not increment the focus counter")
	}
}

func TestSetModeResetsAndPauses(t *testing.T) {
	clock := newFakeClock()
	c := timer.New(settingsWith(25, 5, 15, 4), clock.Now)
	c.Start()

	if !c.SetMode(model.ModeLongBreak) {
		t.Fatal("expected valid mode switch")
	}
	if c.Running() {
		t.Fatal("mode switch must pause the timer")
	}
	if c.Remaining() != 15*60 {
		t.Fatalf("expected long break duration, got %d", c.Remaining())
	}
	if c.SetMode("nap") {
		t.Fatal("unknown mode must be rejected")
	}
}

func TestUpdateSettingsRejectsOnlyInvalidFields(t *testing.T) {
	clock := newFakeClock()
	c := timer.New(settingsWith(25, 5, 15, 4), clock.Now)

	next := c.Settings()
	next.FocusMinutes = -5
	next.ShortBreakMinutes = 10
	next.LongBreakInterval = 0
	applied := c.UpdateSettings(next)

	if applied.FocusMinutes != 25 {
		t.Fatalf("invalid focusMinutes should be rejected, got %d", applied.FocusMinutes)
	}
	if applied.ShortBreakMinutes != 10 {
		t.Fatalf("valid shortBreakMinutes should apply, got %d", applied.ShortBreakMinutes)
	}
	if applied.LongBreakInterval != 4 {
		t.Fatalf("interval below one should be rejected, got %d", applied.LongBreakInterval)
	}
}

func TestUpdateSettingsResizesPausedCurrentMode(t *testing.T) {
	clock := newFakeClock()
	c := timer.New(settingsWith(25, 5, 15, 4), clock.Now)

	next := c.Settings()
	next.FocusMinutes = 50
	c.UpdateSettings(next)
	if c.Remaining() != 50*60 {
		t.Fatalf("paused countdown should resize, got %d", c.Remaining())
	}

	c.Start()
	clock.Advance(10 * time.Second)
	next.FocusMinutes = 30
	c.UpdateSettings(next)
	if got := c.Remaining(); got != 50*60-10 {
		t.Fatalf("running countdown must not resize, got %d", got)
	}
}
