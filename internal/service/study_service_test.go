package service

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"

	"studyhub/backend/internal/analytics"
	"studyhub/backend/internal/db"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/repository"
)

type testEnv struct {
	stateRepo   *repository.StateRepository
	sessionRepo *repository.SessionRepository
	userID      string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	if err := db.RunMigrations(database, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        "student@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repository.NewUserRepository(database).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return testEnv{
		stateRepo:   repository.NewStateRepository(database),
		sessionRepo: repository.NewSessionRepository(database),
		userID:      user.ID,
	}
}

func (e testEnv) newService() *StudyService {
	return NewStudyService(e.stateRepo, e.sessionRepo, nil, nil, nil)
}

func TestSettingsSurviveRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := env.newService()
	svc.UpdateTimerSettings(ctx, env.userID, model.TimerSettings{
		FocusMinutes:      45,
		LongBreakInterval: 3,
	})

	// A fresh service instance must rebuild the user from the store.
	restarted := env.newService()
	state := restarted.TimerState(ctx, env.userID)
	if state.Settings.FocusMinutes != 45 {
		t.Fatalf("expected focusMinutes 45 after restart, got %d", state.Settings.FocusMinutes)
	}
	if state.Settings.LongBreakInterval != 3 {
		t.Fatalf("expected longBreakInterval 3 after restart, got %d", state.Settings.LongBreakInterval)
	}
	if state.RemainingSeconds != 45*60 {
		t.Fatalf("expected countdown rebuilt from settings, got %d", state.RemainingSeconds)
	}
}

func TestLibrarySurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := env.newService()
	if _, apiErr := svc.AddToLibrary(ctx, env.userID, model.MediaItem{ID: "v1", Title: "Alpha"}); apiErr != nil {
		t.Fatalf("add to library: %v", apiErr)
	}

	restarted := env.newService()
	library := restarted.Library(ctx, env.userID)
	if len(library) != 1 || library[0].ID != "v1" {
		t.Fatalf("unexpected library after restart: %+v", library)
	}
}

func TestFocusExitRecordsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := env.newService()
	svc.EnterFocusMode(ctx, env.userID)
	for i := 0; i < 3; i++ {
		svc.tickAll()
	}

	focus := svc.FocusState(ctx, env.userID)
	if focus.ElapsedFocusSeconds != 3 {
		t.Fatalf("expected 3 elapsed seconds, got %d", focus.ElapsedFocusSeconds)
	}
	if focus.StudyData.FocusTimeSeconds != 3 {
		t.Fatalf("expected 3 accumulated focus seconds, got %d", focus.StudyData.FocusTimeSeconds)
	}

	svc.ExitFocusMode(ctx, env.userID)

	sessions, apiErr := svc.SessionHistory(ctx, env.userID, 10)
	if apiErr != nil {
		t.Fatalf("session history: %v", apiErr)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(sessions))
	}
	if sessions[0].DurationSeconds != 3 {
		t.Fatalf("expected 3 second session, got %d", sessions[0].DurationSeconds)
	}

	stats, apiErr := svc.Stats(ctx, env.userID, analytics.TimeframeWeek)
	if apiErr != nil {
		t.Fatalf("stats: %v", apiErr)
	}
	if stats.SessionCount != 1 || stats.StreakDays != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExitWithoutFocusTimeRecordsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := env.newService()
	svc.EnterFocusMode(ctx, env.userID)
	svc.ExitFocusMode(ctx, env.userID)

	sessions, apiErr := svc.SessionHistory(ctx, env.userID, 10)
	if apiErr != nil {
		t.Fatalf("session history: %v", apiErr)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions))
	}
}

func TestCompletedPomodorosSurviveRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.stateRepo.Save(ctx, env.userID, repository.StateKeyCompletedPomodoros, 7); err != nil {
		t.Fatalf("seed pomodoro count: %v", err)
	}

	svc := env.newService()
	state := svc.TimerState(ctx, env.userID)
	if state.CompletedFocusSessions != 7 {
		t.Fatalf("expected 7 completed sessions restored, got %d", state.CompletedFocusSessions)
	}
}
