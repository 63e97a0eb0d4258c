package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apiMiddleware "github.com/hivetech/kanban-api/internal/api/middleware"
	"github.com/hivetech/kanban-api/internal/authz"
	"github.com/hivetech/kanban-api/internal/config"
	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/events"
	"github.com/hivetech/kanban-api/internal/service"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
}

// memTaskStore is an in-memory store.TaskStore mirroring the conditional
// write behavior of the database implementation.
type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
}

func (s *memTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

func (s *memTaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
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

func (s *memTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) List(ctx context.Context, filter store.TaskFilter, page store.Page) (*store.TaskPage, error) {
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

// memUserStore is an in-memory store.UserStore keyed by lowercase email.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]domain.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return store.ErrEmailExists
	}
	s.users[user.Email] = *user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
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

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// testEnv wires the real handlers, services, and authentication gate
// around in-memory stores.
type testEnv struct {
	router    http.Handler
	taskStore *memTaskStore
	userStore *memUserStore
	hub       *events.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-that-is-at-least-32-chars",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	taskStore := newMemTaskStore()
	userStore := newMemUserStore()
	hub := events.NewHub(testLogger(t))
	policy := authz.NewPolicy()

	verifier := auth.NewBcryptVerifier()
	userService := service.NewUserService(userStore, jwtService, verifier, verifier)
	taskService := service.NewTaskService(taskStore, hub)

	authHandler := NewAuthHandler(userService)
	taskHandler := NewTaskHandler(taskService)
	authGate := apiMiddleware.NewAuthMiddleware(jwtService, userStore, policy)

	r := chi.NewRouter()
	r.Use(authGate.Authenticate)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Put("/tasks/{id}", taskHandler.Replace)
		r.Patch("/tasks/{id}", taskHandler.Patch)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	return &testEnv{
		router:    r,
		taskStore: taskStore,
		userStore: userStore,
		hub:       hub,
	}
}

// do performs a request against the in-process router and decodes the
// JSON response body into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusMultipleChoices {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()

	var resp AuthResponse
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "password123",
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func validTaskRequest() TaskRequest {
	return TaskRequest{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Status:      "TO_DO",
		Priority:    "MEDIUM",
	}
}
