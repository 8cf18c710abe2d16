package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub/backend/internal/analytics"
	apperrors "studyhub/backend/internal/errors"
	"studyhub/backend/internal/metrics"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/notify"
	"studyhub/backend/internal/repository"
	"studyhub/backend/internal/session"
)

const persistTimeout = 5 * time.Second

// studyDataFlushTicks is how often the accumulators are flushed to the
// store while focus mode keeps them moving.
const studyDataFlushTicks = 30

// StudyService owns one session coordinator per user. All access to a
// user's coordinator goes through that user's mutex, so the
// coordinator itself stays lock-free; a single one-second ticker
// drives every coordinator's clock.
//
// Core playback and timer operations never fail: persistence errors
// are logged and the in-memory state stays authoritative.
type StudyService struct {
	stateRepo   *repository.StateRepository
	sessionRepo *repository.SessionRepository
	notifier    notify.Service
	recorder    metrics.Recorder
	log         *slog.Logger

	mu    sync.Mutex
	users map[string]*userState

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type userState struct {
	mu     sync.Mutex
	userID string
	coord  *session.Coordinator

	ticks              int
	persistedPomodoros int
}

func NewStudyService(
	stateRepo *repository.StateRepository,
	sessionRepo *repository.SessionRepository,
	notifier notify.Service,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *StudyService {
	if notifier == nil {
		notifier = notify.NewService("", 0)
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyService{
		stateRepo:   stateRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		recorder:    recorder,
		log:         logger,
		users:       make(map[string]*userState),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// StartTicker launches the background clock. Call Close to stop it.
func (s *StudyService) StartTicker() {
	go s.run()
}

func (s *StudyService) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			close(s.done)
			return
		case <-ticker.C:
			s.tickAll()
		}
	}
}

// Close stops the ticker and waits for the loop to exit.
func (s *StudyService) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *StudyService) tickAll() {
	s.mu.Lock()
	users := make([]*userState, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()

	for _, u := range users {
		u.mu.Lock()
		u.coord.Tick()
		u.ticks++
		s.persistAfterAdvance(u)
		u.mu.Unlock()
	}
}

// persistAfterAdvance flushes state the latest tick or operation may
// have changed. Caller holds the user lock.
func (s *StudyService) persistAfterAdvance(u *userState) {
	completed := u.coord.Timer().CompletedFocusSessions()
	if completed != u.persistedPomodoros {
		u.persistedPomodoros = completed
		s.saveState(u.userID, repository.StateKeyCompletedPomodoros, completed)
		s.saveState(u.userID, repository.StateKeyStudyData, u.coord.Data())
		return
	}
	if u.coord.FocusMode() && u.ticks%studyDataFlushTicks == 0 {
		s.saveState(u.userID, repository.StateKeyStudyData, u.coord.Data())
	}
}

// user returns the loaded state for userID, building it from the
// store on first access.
func (s *StudyService) user(ctx context.Context, userID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		return u
	}

	settings := model.DefaultTimerSettings()
	if err := s.stateRepo.Load(ctx, userID, repository.StateKeyPomodoroSettings, &settings); err != nil && err != repository.ErrNotFound {
		s.log.Warn("load timer settings failed", "user", userID, "error", err)
	}

	u := &userState{
		userID: userID,
		coord:  session.New(settings, time.Now),
	}

	var data model.StudyData
	if err := s.stateRepo.Load(ctx, userID, repository.StateKeyStudyData, &data); err == nil {
		u.coord.RestoreData(data)
	} else if err != repository.ErrNotFound {
		s.log.Warn("load study data failed", "user", userID, "error", err)
	}

	var library []model.MediaItem
	if err := s.stateRepo.Load(ctx, userID, repository.StateKeySavedVideos, &library); err == nil {
		u.coord.RestoreLibrary(library)
	} else if err != repository.ErrNotFound {
		s.log.Warn("load library failed", "user", userID, "error", err)
	}

	var completed int
	if err := s.stateRepo.Load(ctx, userID, repository.StateKeyCompletedPomodoros, &completed); err == nil {
		u.coord.Timer().RestoreCompletedFocusSessions(completed)
	} else if err != repository.ErrNotFound {
		s.log.Warn("load pomodoro count failed", "user", userID, "error", err)
	}
	u.persistedPomodoros = u.coord.Timer().CompletedFocusSessions()

	u.coord.OnModeComplete(func(mode string) {
		if mode == model.ModeFocus {
			s.recorder.RecordFocusSessionCompleted()
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			if err := s.notifier.NotifyModeComplete(ctx, mode); err != nil {
				s.log.Warn("notify failed", "mode", mode, "error", err)
			}
		}()
	})

	u.coord.OnFocusSessionRecorded(func(date time.Time, durationSeconds int) {
		s.recordStudySession(userID, date, durationSeconds)
		s.recorder.RecordStudySessionSeconds(durationSeconds)
		s.saveState(userID, repository.StateKeyStudyData, u.coord.Data())
	})

	s.users[userID] = u
	return u
}

func (s *StudyService) recordStudySession(userID string, date time.Time, durationSeconds int) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	now := time.Now().UTC()
	sess := model.StudySession{
		ID:              uuid.NewString(),
		UserID:          userID,
		Date:            date.UTC(),
		DurationSeconds: durationSeconds,
		CreatedAt:       now,
	}
	if err := s.sessionRepo.Insert(ctx, &sess); err != nil {
		s.log.Warn("record study session failed", "user", userID, "error", err)
	}
}

// saveState persists one state key, logging failures instead of
// propagating them.
func (s *StudyService) saveState(userID, key string, value interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.stateRepo.Save(ctx, userID, key, value); err != nil {
		s.log.Warn("state save failed", "user", userID, "key", key, "error", err)
	}
}

type TimerView struct {
	Mode                   string              `json:"mode"`
	Status                 string              `json:"status"`
	RemainingSeconds       int                 `json:"remainingSeconds"`
	CompletedFocusSessions int                 `json:"completedFocusSessions"`
	Settings               model.TimerSettings `json:"settings"`
	ServerTime             time.Time           `json:"serverTime"`
}

type QueueView struct {
	Items      []model.MediaItem `json:"items"`
	Repeat     bool              `json:"repeat"`
	Shuffle    bool              `json:"shuffle"`
	NowPlaying *model.MediaItem  `json:"nowPlaying,omitempty"`
}

type FocusView struct {
	FocusMode           bool            `json:"focusMode"`
	ElapsedFocusSeconds int             `json:"elapsedFocusSeconds"`
	StudyData           model.StudyData `json:"studyData"`
}

func timerView(u *userState) *TimerView {
	t := u.coord.Timer()
	status := model.StatusPaused
	if t.Running() {
		status = model.StatusRunning
	}
	return &TimerView{
		Mode:                   t.Mode(),
		Status:                 status,
		RemainingSeconds:       t.Remaining(),
		CompletedFocusSessions: t.CompletedFocusSessions(),
		Settings:               t.Settings(),
		ServerTime:             time.Now().UTC(),
	}
}

func queueView(u *userState) *QueueView {
	q := u.coord.Queue()
	view := &QueueView{
		Items:   q.Items(),
		Repeat:  q.Repeat(),
		Shuffle: q.Shuffle(),
	}
	if active, ok := u.coord.Active(); ok {
		view.NowPlaying = &active
	}
	return view
}

func focusView(u *userState) *FocusView {
	return &FocusView{
		FocusMode:           u.coord.FocusMode(),
		ElapsedFocusSeconds: u.coord.ElapsedFocusSeconds(),
		StudyData:           u.coord.Data(),
	}
}

func (s *StudyService) TimerState(ctx context.Context, userID string) *TimerView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return timerView(u)
}

func (s *StudyService) StartTimer(ctx context.Context, userID string) *TimerView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.StartTimer()
	return timerView(u)
}

func (s *StudyService) PauseTimer(ctx context.Context, userID string) *TimerView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.PauseTimer()
	return timerView(u)
}

func (s *StudyService) SkipTimer(ctx context.Context, userID string) *TimerView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.SkipTimer()
	return timerView(u)
}

func (s *StudyService) SetTimerMode(ctx context.Context, userID, mode string) (*TimerView, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.coord.SetTimerMode(mode) {
		return nil, apperrors.BadRequest("invalid_mode", "mode must be one of focus, short_break, long_break")
	}
	return timerView(u), nil
}

// UpdateTimerSettings applies the valid fields of next and reports
// what is actually in effect afterwards.
func (s *StudyService) UpdateTimerSettings(ctx context.Context, userID string, next model.TimerSettings) *TimerView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	applied := u.coord.UpdateTimerSettings(next)
	s.saveState(userID, repository.StateKeyPomodoroSettings, applied)
	return timerView(u)
}

func (s *StudyService) QueueState(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return queueView(u)
}

func (s *StudyService) AddToQueue(ctx context.Context, userID string, items []model.MediaItem) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, item := range items {
		u.coord.Queue().Add(item)
	}
	return queueView(u)
}

func (s *StudyService) RemoveFromQueue(ctx context.Context, userID, itemID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.RemoveFromQueue(itemID)
	return queueView(u)
}

func (s *StudyService) ReorderQueue(ctx context.Context, userID string, items []model.MediaItem) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.Queue().Reorder(items)
	return queueView(u)
}

func (s *StudyService) ClearQueue(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.Queue().Clear()
	return queueView(u)
}

func (s *StudyService) ToggleRepeat(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.Queue().ToggleRepeat()
	return queueView(u)
}

func (s *StudyService) ToggleShuffle(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.Queue().ToggleShuffle()
	return queueView(u)
}

func (s *StudyService) PlayNext(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.PlayNext()
	return queueView(u)
}

// ItemEnded advances playback after the player reports the current
// item finished.
func (s *StudyService) ItemEnded(ctx context.Context, userID string) *QueueView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.ItemEnded()
	return queueView(u)
}

func (s *StudyService) Play(ctx context.Context, userID string, item model.MediaItem) (*QueueView, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.coord.Play(item) {
		return nil, apperrors.BadRequest("invalid_item", "item id is required")
	}
	return queueView(u), nil
}

func (s *StudyService) Library(ctx context.Context, userID string) []model.MediaItem {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.coord.Library()
}

func (s *StudyService) AddToLibrary(ctx context.Context, userID string, item model.MediaItem) ([]model.MediaItem, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	item = item.Normalize()
	if !item.Valid() {
		return nil, apperrors.BadRequest("invalid_item", "item id is required")
	}
	if u.coord.AddToLibrary(item) {
		s.saveState(userID, repository.StateKeySavedVideos, u.coord.Library())
	}
	return u.coord.Library(), nil
}

func (s *StudyService) RemoveFromLibrary(ctx context.Context, userID, itemID string) []model.MediaItem {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.coord.RemoveFromLibrary(itemID) {
		s.saveState(userID, repository.StateKeySavedVideos, u.coord.Library())
	}
	return u.coord.Library()
}

func (s *StudyService) FocusState(ctx context.Context, userID string) *FocusView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return focusView(u)
}

func (s *StudyService) EnterFocusMode(ctx context.Context, userID string) *FocusView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.EnterFocusMode()
	return focusView(u)
}

func (s *StudyService) ExitFocusMode(ctx context.Context, userID string) *FocusView {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.coord.ExitFocusMode()
	return focusView(u)
}

func (s *StudyService) Stats(ctx context.Context, userID, timeframe string) (*analytics.Stats, *apperrors.APIError) {
	switch timeframe {
	case "":
		timeframe = analytics.TimeframeAll
	case analytics.TimeframeWeek, analytics.TimeframeMonth, analytics.TimeframeAll:
	default:
		return nil, apperrors.BadRequest("invalid_timeframe", "timeframe must be one of week, month, all")
	}

	sessions, err := s.sessionRepo.ListSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, apperrors.Internal("failed to load study sessions")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	data := u.coord.Data()
	u.mu.Unlock()

	stats := analytics.Compute(data, sessions, timeframe, time.Now().UTC())
	return &stats, nil
}

func (s *StudyService) SessionHistory(ctx context.Context, userID string, limit int) ([]model.StudySession, *apperrors.APIError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to load study sessions")
	}
	return sessions, nil
}
