package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studyhub/backend/internal/errors"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/repository"
)

// Dashboard widget documents (tasks, notes, playlists) live in the
// per-user state store as whole JSON lists. Each operation loads the
// list, mutates it, and writes it back under the user's lock, so the
// read-modify-write is race free without transactions.

type TaskUpdate struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *StudyService) ListTasks(ctx context.Context, userID string) ([]model.Task, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return s.loadTasks(ctx, userID)
}

func (s *StudyService) CreateTask(ctx context.Context, userID, title string) (*model.Task, *apperrors.APIError) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.BadRequest("invalid_title", "title is required")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	tasks, apiErr := s.loadTasks(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	tasks = append(tasks, task)

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyTasks, tasks); err != nil {
		return nil, apperrors.Internal("failed to save tasks")
	}
	return &task, nil
}

// UpdateTask applies the provided fields. Completing a task bumps the
// study accumulator's task counter; un-completing does not lower it.
func (s *StudyService) UpdateTask(ctx context.Context, userID, taskID string, update TaskUpdate) (*model.Task, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	tasks, apiErr := s.loadTasks(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}

	task := &tasks[idx]
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.BadRequest("invalid_title", "title must not be empty")
		}
		task.Title = title
	}
	if update.Completed != nil && *update.Completed != task.Completed {
		task.Completed = *update.Completed
		if task.Completed {
			now := time.Now().UTC()
			task.CompletedAt = &now
			u.coord.CompleteTask()
			s.recorder.RecordTaskCompleted()
			s.saveState(userID, repository.StateKeyStudyData, u.coord.Data())
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyTasks, tasks); err != nil {
		return nil, apperrors.Internal("failed to save tasks")
	}
	return task, nil
}

func (s *StudyService) DeleteTask(ctx context.Context, userID, taskID string) *apperrors.APIError {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	tasks, apiErr := s.loadTasks(ctx, userID)
	if apiErr != nil {
		return apiErr
	}

	kept := tasks[:0]
	found := false
	for _, task := range tasks {
		if task.ID == taskID {
			found = true
			continue
		}
		kept = append(kept, task)
	}
	if !found {
		return apperrors.NotFound("task_not_found", "task not found")
	}

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyTasks, kept); err != nil {
		return apperrors.Internal("failed to save tasks")
	}
	return nil
}

func (s *StudyService) loadTasks(ctx context.Context, userID string) ([]model.Task, *apperrors.APIError) {
	var tasks []model.Task
	err := s.stateRepo.Load(ctx, userID, repository.StateKeyStudyTasks, &tasks)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal("failed to load tasks")
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

type NoteInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *StudyService) ListNotes(ctx context.Context, userID string) ([]model.Note, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return s.loadNotes(ctx, userID)
}

func (s *StudyService) CreateNote(ctx context.Context, userID string, input NoteInput) (*model.Note, *apperrors.APIError) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.BadRequest("invalid_title", "title is required")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	notes, apiErr := s.loadNotes(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	note := model.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      input.Body,
		UpdatedAt: time.Now().UTC(),
	}
	notes = append(notes, note)

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyNotes, notes); err != nil {
		return nil, apperrors.Internal("failed to save notes")
	}
	return &note, nil
}

func (s *StudyService) UpdateNote(ctx context.Context, userID, noteID string, input NoteInput) (*model.Note, *apperrors.APIError) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.BadRequest("invalid_title", "title is required")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	notes, apiErr := s.loadNotes(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	for i := range notes {
		if notes[i].ID != noteID {
			continue
		}
		notes[i].Title = title
		notes[i].Body = input.Body
		notes[i].UpdatedAt = time.Now().UTC()
		if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyNotes, notes); err != nil {
			return nil, apperrors.Internal("failed to save notes")
		}
		return &notes[i], nil
	}
	return nil, apperrors.NotFound("note_not_found", "note not found")
}

func (s *StudyService) DeleteNote(ctx context.Context, userID, noteID string) *apperrors.APIError {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	notes, apiErr := s.loadNotes(ctx, userID)
	if apiErr != nil {
		return apiErr
	}

	kept := notes[:0]
	found := false
	for _, note := range notes {
		if note.ID == noteID {
			found = true
			continue
		}
		kept = append(kept, note)
	}
	if !found {
		return apperrors.NotFound("note_not_found", "note not found")
	}

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyStudyNotes, kept); err != nil {
		return apperrors.Internal("failed to save notes")
	}
	return nil
}

func (s *StudyService) loadNotes(ctx context.Context, userID string) ([]model.Note, *apperrors.APIError) {
	var notes []model.Note
	err := s.stateRepo.Load(ctx, userID, repository.StateKeyStudyNotes, &notes)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal("failed to load notes")
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (s *StudyService) ListPlaylists(ctx context.Context, userID string) ([]model.Playlist, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return s.loadPlaylists(ctx, userID)
}

func (s *StudyService) CreatePlaylist(ctx context.Context, userID, name string) (*model.Playlist, *apperrors.APIError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("invalid_name", "name is required")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	playlists, apiErr := s.loadPlaylists(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	playlist := model.Playlist{
		ID:     uuid.NewString(),
		Name:   name,
		Tracks: []model.MediaItem{},
	}
	playlists = append(playlists, playlist)

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyPlaylists, playlists); err != nil {
		return nil, apperrors.Internal("failed to save playlists")
	}
	return &playlist, nil
}

func (s *StudyService) DeletePlaylist(ctx context.Context, userID, playlistID string) *apperrors.APIError {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	playlists, apiErr := s.loadPlaylists(ctx, userID)
	if apiErr != nil {
		return apiErr
	}

	kept := playlists[:0]
	found := false
	for _, playlist := range playlists {
		if playlist.ID == playlistID {
			found = true
			continue
		}
		kept = append(kept, playlist)
	}
	if !found {
		return apperrors.NotFound("playlist_not_found", "playlist not found")
	}

	if err := s.stateRepo.Save(ctx, userID, repository.StateKeyPlaylists, kept); err != nil {
		return apperrors.Internal("failed to save playlists")
	}
	return nil
}

// AddPlaylistTrack appends the item unless its id already exists in
// the playlist.
func (s *StudyService) AddPlaylistTrack(ctx context.Context, userID, playlistID string, item model.MediaItem) (*model.Playlist, *apperrors.APIError) {
	item = item.Normalize()
	if !item.Valid() {
		return nil, apperrors.BadRequest("invalid_item", "item id is required")
	}

	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	playlists, apiErr := s.loadPlaylists(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	for i := range playlists {
		if playlists[i].ID != playlistID {
			continue
		}
		for _, track := range playlists[i].Tracks {
			if track.ID == item.ID {
				return &playlists[i], nil
			}
		}
		playlists[i].Tracks = append(playlists[i].Tracks, item)
		if err := s.stateRepo.Save(ctx, userID, repository.StateKeyPlaylists, playlists); err != nil {
			return nil, apperrors.Internal("failed to save playlists")
		}
		return &playlists[i], nil
	}
	return nil, apperrors.NotFound("playlist_not_found", "playlist not found")
}

func (s *StudyService) RemovePlaylistTrack(ctx context.Context, userID, playlistID, trackID string) (*model.Playlist, *apperrors.APIError) {
	u := s.user(ctx, userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	playlists, apiErr := s.loadPlaylists(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	for i := range playlists {
		if playlists[i].ID != playlistID {
			continue
		}
		kept := playlists[i].Tracks[:0]
		for _, track := range playlists[i].Tracks {
			if track.ID == trackID {
				continue
			}
			kept = append(kept, track)
		}
		playlists[i].Tracks = kept
		if err := s.stateRepo.Save(ctx, userID, repository.StateKeyPlaylists, playlists); err != nil {
			return nil, apperrors.Internal("failed to save playlists")
		}
		return &playlists[i], nil
	}
	return nil, apperrors.NotFound("playlist_not_found", "playlist not found")
}

func (s *StudyService) loadPlaylists(ctx context.Context, userID string) ([]model.Playlist, *apperrors.APIError) {
	var playlists []model.Playlist
	err := s.stateRepo.Load(ctx, userID, repository.StateKeyPlaylists, &playlists)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal("failed to load playlists")
	}
	if playlists == nil {
		playlists = []model.Playlist{}
	}
	return playlists, nil
}
