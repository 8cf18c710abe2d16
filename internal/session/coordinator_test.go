package session_test

import (
	"testing"
	"time"

	"studyhub/backend/internal/model"
	"studyhub/backend/internal/session"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func item(id string) model.MediaItem {
	return model.MediaItem{ID: id, Title: "title-" + id}
}

func TestFocusTickerAccumulates(t *testing.T) {
	clock := newFakeClock()
	c := session.New(model.DefaultTimerSettings(), clock.Now)

	c.EnterFocusMode()
	for i := 0; i < 90; i++ {
		clock.Advance(time.Second)
		c.Tick()
	}

	if got := c.Data().FocusTimeSeconds; got != 90 {
		t.Fatalf("expected 90 accumulated seconds, got %d", got)
	}
	if got := c.ElapsedFocusSeconds(); got != 90 {
		t.Fatalf("expected 90 elapsed seconds, got %d", got)
	}
}

func TestExitFocusModeRecordsSession(t *testing.T) {
	clock := newFakeClock()
	c := session.New(model.DefaultTimerSettings(), clock.Now)

	var recordedAt time.Time
	var recordedSeconds int
	records := 0
	c.OnFocusSessionRecorded(func(date time.Time, seconds int) {
		recordedAt = date
		recordedSeconds = seconds
		records++
	})

	c.EnterFocusMode()
	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		c.Tick()
	}
	c.ExitFocusMode()

	if records != 1 {
		t.Fatalf("expected one recorded session, got %d", records)
	}
	if recordedSeconds != 30 {
		t.Fatalf("expected 30 second session, got %d", recordedSeconds)
	}
	if !recordedAt.Equal(clock.Now()) {
		t.Fatalf("expected record at %v, got %v", clock.Now(), recordedAt)
	}
	if c.ElapsedFocusSeconds() != 0 {
		t.Fatal("elapsed counter should reset on exit")
	}

	// Exiting without accrued time records nothing.
	c.EnterFocusMode()
	c.ExitFocusMode()
	if records != 1 {
		t.Fatalf("zero-length session should not be recorded, got %d records", records)
	}
}

func TestBreakEarnedFeedsAccumulator(t *testing.T) {
	clock := newFakeClock()
	settings := model.DefaultTimerSettings()
	settings.FocusMinutes = 1
	settings.AutoStartBreaks = false
	c := session.New(settings, clock.Now)

	c.StartTimer()
	clock.Advance(61 * time.Second)
	c.Tick()

	if got := c.Data().BreakTimeSeconds; got != settings.ShortBreakMinutes*60 {
		t.Fatalf("expected %d break seconds, got %d", settings.ShortBreakMinutes*60, got)
	}
}

func TestStartTimerInFocusModeEntersFocus(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	if c.FocusMode() {
		t.Fatal("focus mode should start off")
	}
	c.StartTimer()
	if !c.FocusMode() {
		t.Fatal("starting a focus interval should enter focus mode")
	}
}

func TestAccumulatorsAreMonotonic(t *testing.T) {
	clock := newFakeClock()
	c := session.New(model.DefaultTimerSettings(), clock.Now)

	sessions := 0
	c.OnFocusSessionRecorded(func(time.Time, int) { sessions++ })

	prev := c.Data()
	prevSessions := 0
	step := func(label string) {
		data := c.Data()
		if data.FocusTimeSeconds < prev.FocusTimeSeconds ||
			data.BreakTimeSeconds < prev.BreakTimeSeconds ||
			data.CompletedTasks < prev.CompletedTasks ||
			sessions < prevSessions {
			t.Fatalf("%s: accumulator decreased: %+v -> %+v", label, prev, data)
		}
		prev = data
		prevSessions = sessions
	}

	c.EnterFocusMode()
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		c.Tick()
		step("tick")
	}
	c.CompleteTask()
	step("task")
	c.ExitFocusMode()
	step("exit")
	c.CompleteTask()
	step("task2")
}

func TestRemovingActiveLibraryItemClearsSelection(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	c.AddToLibrary(item("a"))
	c.AddToLibrary(item("b"))
	c.Play(item("a"))

	c.RemoveFromLibrary("a")
	if _, ok := c.Active(); ok {
		t.Fatal("removing the active library item should clear the selection")
	}

	c.Play(item("b"))
	c.RemoveFromLibrary("zz")
	if _, ok := c.Active(); !ok {
		t.Fatal("removing an absent id should not touch the selection")
	}
}

func TestRemovingActiveQueueItemClearsSelection(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	c.Queue().Add(item("a"))
	c.Play(item("a"))

	c.RemoveFromQueue("a")
	if _, ok := c.Active(); ok {
		t.Fatal("removing the active queued item should clear the selection")
	}
}

func TestLibraryDeduplicates(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	if !c.AddToLibrary(item("a")) {
		t.Fatal("first save should succeed")
	}
	if c.AddToLibrary(item("a")) {
		t.Fatal("duplicate save should be a no-op")
	}
	if c.AddToLibrary(model.MediaItem{}) {
		t.Fatal("malformed item should be rejected")
	}
	if len(c.Library()) != 1 {
		t.Fatalf("expected one library item, got %d", len(c.Library()))
	}
}

func TestPlayNextUpdatesActiveSelection(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	c.Queue().Add(item("a"))
	c.Queue().Add(item("b"))

	got, ok := c.PlayNext()
	if !ok || got.ID != "a" {
		t.Fatalf("expected a, got %q ok=%v", got.ID, ok)
	}
	active, ok := c.Active()
	if !ok || active.ID != "a" {
		t.Fatalf("active selection should be a, got %q ok=%v", active.ID, ok)
	}
}

func TestItemEndedKeepsSelectionWhenNothingFollows(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	c.Play(item("a"))

	if _, ok := c.ItemEnded(); ok {
		t.Fatal("nothing should follow with an empty queue and repeat off")
	}
	active, ok := c.Active()
	if !ok || active.ID != "a" {
		t.Fatal("selection should be unchanged when playback stops")
	}
}

func TestItemEndedRepeatContinuesFromLibrary(t *testing.T) {
	c := session.New(model.DefaultTimerSettings(), nil)
	c.AddToLibrary(item("a"))
	c.AddToLibrary(item("b"))
	c.Play(item("a"))
	c.Queue().ToggleRepeat()

	got, ok := c.ItemEnded()
	if !ok || got.ID != "b" {
		t.Fatalf("expected library successor b, got %q ok=%v", got.ID, ok)
	}
}
