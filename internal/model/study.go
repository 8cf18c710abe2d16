package model

import "time"

// StudyData holds the cumulative study accumulators. Counters only
// grow; they are owned by the session coordinator and persisted under
// the "studyData" state key.
type StudyData struct {
	FocusTimeSeconds int `json:"focusTimeSeconds"`
	BreakTimeSeconds int `json:"breakTimeSeconds"`
	CompletedTasks   int `json:"completedTasks"`
}

// StudySession is one recorded stretch of focus time.
type StudySession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Date            time.Time `json:"date"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Task is a to-do item from the task widget, persisted under the
// "studyTasks" state key.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Note is a free-form note document, persisted under the "studyNotes"
// state key.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}
