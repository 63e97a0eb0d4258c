package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hivetech/kanban-api/internal/api"
	apiMiddleware "github.com/hivetech/kanban-api/internal/api/middleware"
	"github.com/hivetech/kanban-api/internal/ws"
)

// setupRouter creates and configures the application router with all
// routes and middleware. The authentication gate is installed globally;
// the authorization policy decides which routes pass unauthenticated.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	wsHandler := ws.NewHandler(app.jwtService, app.userStore, app.policy, app.hub, app.logger)

	authGate := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore, app.policy)
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

	// The streaming gate performs its own handshake authentication, so
	// the endpoint sits outside the HTTP gate's protected surface.
	r.Get("/ws", wsHandler.Serve)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
