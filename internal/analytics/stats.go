// Package analytics derives display statistics from the study
// accumulators and the recorded session history.
package analytics

import (
	"time"

	"studyhub/backend/internal/model"
)

const (
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
	TimeframeAll   = "all"
)

const dayKeyFormat = "2006-01-02"

type Stats struct {
	TotalFocusSeconds   int     `json:"totalFocusSeconds"`
	TotalBreakSeconds   int     `json:"totalBreakSeconds"`
	CompletedTasks      int     `json:"completedTasks"`
	FocusBreakRatio     float64 `json:"focusBreakRatio"`
	SessionCount        int     `json:"sessionCount"`
	DailyAverageSeconds float64 `json:"dailyAverageSeconds"`
	MostProductiveDay   string  `json:"mostProductiveDay,omitempty"`
	StreakDays          int     `json:"streakDays"`
}

// Compute filters sessions to the timeframe (7 days, 30 days, or all),
// then derives per-day aggregates: the most productive day, the daily
// average over days with any recorded time, and the streak of
// consecutive study days ending today.
func Compute(data model.StudyData, sessions []model.StudySession, timeframe string, now time.Time) Stats {
	var cutoff time.Time
	switch timeframe {
	case TimeframeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case TimeframeMonth:
		cutoff = now.AddDate(0, 0, -30)
	}

	byDay := make(map[string]int)
	count := 0
	total := 0
	for _, s := range sessions {
		if s.DurationSeconds <= 0 || s.Date.IsZero() {
			continue
		}
		if !cutoff.IsZero() && s.Date.Before(cutoff) {
			continue
		}
		byDay[s.Date.Format(dayKeyFormat)] += s.DurationSeconds
		count++
		total += s.DurationSeconds
	}

	mostProductive := ""
	maxSeconds := 0
	for day, seconds := range byDay {
		if seconds > maxSeconds || (seconds == maxSeconds && day > mostProductive) {
			mostProductive = day
			maxSeconds = seconds
		}
	}

	dailyAverage := 0.0
	if len(byDay) > 0 {
		dailyAverage = float64(total) / float64(len(byDay))
	}

	streak := 0
	if byDay[now.Format(dayKeyFormat)] > 0 {
		streak = 1
		day := now
		for {
			day = day.AddDate(0, 0, -1)
			if byDay[day.Format(dayKeyFormat)] > 0 {
				streak++
			} else {
				break
			}
		}
	}

	ratio := 0.0
	if data.BreakTimeSeconds > 0 {
		ratio = float64(data.FocusTimeSeconds) / float64(data.BreakTimeSeconds)
	} else if data.FocusTimeSeconds > 0 {
		ratio = float64(data.FocusTimeSeconds)
	}

	return Stats{
		TotalFocusSeconds:   data.FocusTimeSeconds,
		TotalBreakSeconds:   data.BreakTimeSeconds,
		CompletedTasks:      data.CompletedTasks,
		FocusBreakRatio:     ratio,
		SessionCount:        count,
		DailyAverageSeconds: dailyAverage,
		MostProductiveDay:   mostProductive,
		StreakDays:          streak,
	}
}
