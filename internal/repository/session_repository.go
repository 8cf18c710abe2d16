package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyhub/backend/internal/model"
)

// SessionRepository stores the recorded focus sessions that back the
// analytics history.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Insert(ctx context.Context, session *model.StudySession) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO study_sessions (id, user_id, date, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		formatTime(session.Date),
		session.DurationSeconds,
		formatTime(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.StudySession, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, date, duration_seconds, created_at
		 FROM study_sessions
		 WHERE user_id = ?
		 ORDER BY date DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.StudySession, 0, limit)
	for rows.Next() {
		session, scanErr := scanStudySession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}

	return sessions, nil
}

// ListSince returns sessions on or after the cutoff, newest first.
// A zero cutoff returns everything.
func (r *SessionRepository) ListSince(ctx context.Context, userID string, cutoff time.Time) ([]model.StudySession, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, date, duration_seconds, created_at
		 FROM study_sessions
		 WHERE user_id = ? AND date >= ?
		 ORDER BY date DESC`,
		userID,
		formatTime(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("list study sessions since: %w", err)
	}
	defer rows.Close()

	var sessions []model.StudySession
	for rows.Next() {
		session, scanErr := scanStudySession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudySession(s scanner) (*model.StudySession, error) {
	session := model.StudySession{}
	var date string
	var createdAt string
	err := s.Scan(
		&session.ID,
		&session.UserID,
		&date,
		&session.DurationSeconds,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan study session: %w", err)
	}

	parsedDate, parseErr := parseTime(date)
	if parseErr != nil {
		return nil, fmt.Errorf("parse session date: %w", parseErr)
	}
	session.Date = parsedDate

	parsedCreatedAt, parseErr := parseTime(createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parse session created_at: %w", parseErr)
	}
	session.CreatedAt = parsedCreatedAt

	return &session, nil
}
