package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/events"
	"github.com/hivetech/kanban-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore with the same
// conditional-write semantics as the postgres implementation.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	task.Version = expectedVersion + 1
	s.tasks[task.ID] = *task
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) List(ctx context.Context, filter store.TaskFilter, page store.Page) (*store.TaskPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page.Size <= 0 {
		page.Size = 20
	}

	matched := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		matched = append(matched, task)
	}

	start := page.Number * page.Size
	end := start + page.Size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &store.TaskPage{
		Tasks: matched[start:end],
		Page:  page.Number,
		Size:  page.Size,
		Total: int64(len(matched)),
	}, nil
}

// fakeUserStore is an in-memory store.UserStore keyed by email.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return store.ErrEmailExists
	}
	s.users[user.Email] = *user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TaskEvent
}

func (p *recordingPublisher) Publish(event events.TaskEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) all() []events.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.TaskEvent, len(p.events))
	copy(out, p.events)
	return out
}
