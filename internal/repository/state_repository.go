package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Well-known state keys, one JSON document each per user.
const (
	StateKeySavedVideos        = "savedVideos"
	StateKeyStudyData          = "studyData"
	StateKeyStudyTasks         = "studyTasks"
	StateKeyStudyNotes         = "studyNotes"
	StateKeyPomodoroSettings   = "pomodoroSettings"
	StateKeyCompletedPomodoros = "completedPomodoros"
	StateKeyPlaylists          = "studyMusicPlaylists"
)

// StateRepository is a flat per-user key to JSON-document store. Each
// key is loaded and saved independently; there is no cross-key
// transactionality.
type StateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load unmarshals the stored document for key into dest. Returns
// ErrNotFound when the key has never been saved.
func (r *StateRepository) Load(ctx context.Context, userID, key string, dest interface{}) error {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT value FROM app_state WHERE user_id = ? AND key = ?`,
		userID,
		key,
	)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("load state %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode state %s: %w", key, err)
	}
	return nil
}

// Save upserts the JSON encoding of value under key.
func (r *StateRepository) Save(ctx context.Context, userID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO app_state (user_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		userID,
		key,
		string(raw),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}
