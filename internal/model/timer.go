package model

const (
	ModeFocus      = "focus"
	ModeShortBreak = "short_break"
	ModeLongBreak  = "long_break"

	StatusRunning = "running"
	StatusPaused  = "paused"
)

const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
	DefaultLongBreakInterval = 4
)

// TimerSettings are the user-tunable interval durations and auto-start
// flags. Durations are minutes; the long break interval counts focus
// completions between long breaks.
type TimerSettings struct {
	FocusMinutes      int  `json:"focusMinutes"`
	ShortBreakMinutes int  `json:"shortBreakMinutes"`
	LongBreakMinutes  int  `json:"longBreakMinutes"`
	LongBreakInterval int  `json:"longBreakInterval"`
	AutoStartBreaks   bool `json:"autoStartBreaks"`
	AutoStartFocus    bool `json:"autoStartFocus"`
	SoundEnabled      bool `json:"soundEnabled"`
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:      DefaultFocusMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
		LongBreakInterval: DefaultLongBreakInterval,
		AutoStartBreaks:   true,
		AutoStartFocus:    false,
		SoundEnabled:      true,
	}
}

// DurationSeconds returns the configured countdown length for a mode.
// Unknown modes fall back to the focus duration.
func (s TimerSettings) DurationSeconds(mode string) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakMinutes * 60
	case ModeLongBreak:
		return s.LongBreakMinutes * 60
	default:
		return s.FocusMinutes * 60
	}
}

func ValidMode(mode string) bool {
	return mode == ModeFocus || mode == ModeShortBreak || mode == ModeLongBreak
}
