package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/collabhub/hub/internal/api/handlers"
	mw "github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/repository"
)

type Dependencies struct {
	HMACSecret         []byte
	Users              repository.UserRepository
	AuthHandler        *handlers.AuthHandler
	ProjectsHandler    *handlers.ProjectsHandler
	MembershipsHandler *handlers.MembershipsHandler
	TasksHandler       *handlers.TasksHandler
	AssignmentsHandler *handlers.AssignmentsHandler
	ThreadsHandler     *handlers.ThreadsHandler
	MessagesHandler    *handlers.MessagesHandler
	TagsHandler        *handlers.TagsHandler
	WebhooksHandler    *handlers.WebhooksHandler
	AuditHandler       *handlers.AuditHandler
	UsersHandler       *handlers.UsersHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
			ar.Post("/refresh", dep.AuthHandler.Refresh)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret, dep.Users))

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Post("/", dep.ProjectsHandler.Create)
				pr.Get("/{id}", dep.ProjectsHandler.Get)
				pr.Put("/{id}", dep.ProjectsHandler.Update)
				pr.Delete("/{id}", dep.ProjectsHandler.Delete)

				pr.Route("/{id}/members", func(mr chi.Router) {
					mr.Get("/", dep.MembershipsHandler.List)
					mr.Post("/", dep.MembershipsHandler.Add)
					mr.Put("/{membershipID}", dep.MembershipsHandler.Update)
					mr.Delete("/{membershipID}", dep.MembershipsHandler.Remove)
				})
			})

			protected.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", dep.TasksHandler.List)
				tr.Post("/", dep.TasksHandler.Create)
				tr.Get("/{id}", dep.TasksHandler.Get)
				tr.Put("/{id}", dep.TasksHandler.Update)
				tr.Delete("/{id}", dep.TasksHandler.Delete)

				tr.Get("/{id}/assignments", dep.AssignmentsHandler.ListByTask)
				tr.Post("/{id}/assignments", dep.AssignmentsHandler.Add)
			})

			protected.Delete("/assignments/{id}", dep.AssignmentsHandler.Remove)

			protected.Route("/threads", func(tr chi.Router) {
				tr.Get("/", dep.ThreadsHandler.List)
				tr.Post("/", dep.ThreadsHandler.Create)
				tr.Get("/{id}", dep.ThreadsHandler.Get)
				tr.Put("/{id}", dep.ThreadsHandler.Update)
				tr.Delete("/{id}", dep.ThreadsHandler.Delete)
			})

			protected.Route("/messages", func(mr chi.Router) {
				mr.Get("/", dep.MessagesHandler.List)
				mr.Post("/", dep.MessagesHandler.Create)
				mr.Get("/{id}", dep.MessagesHandler.Get)
				mr.Put("/{id}", dep.MessagesHandler.Update)
				mr.Delete("/{id}", dep.MessagesHandler.Delete)
			})

			protected.Route("/tags", func(tr chi.Router) {
				tr.Get("/", dep.TagsHandler.List)
				tr.Post("/", dep.TagsHandler.Create)
				tr.Get("/{id}", dep.TagsHandler.Get)
				tr.Put("/{id}", dep.TagsHandler.Update)
				tr.Delete("/{id}", dep.TagsHandler.Delete)
			})

			protected.Route("/webhooks", func(wr chi.Router) {
				wr.Get("/", dep.WebhooksHandler.List)
				wr.Post("/", dep.WebhooksHandler.Create)
				wr.Get("/{id}", dep.WebhooksHandler.Get)
				wr.Put("/{id}", dep.WebhooksHandler.Update)
				wr.Delete("/{id}", dep.WebhooksHandler.Delete)
			})

			protected.Route("/audit-events", func(ar chi.Router) {
				ar.Get("/", dep.AuditHandler.List)
				ar.Get("/{id}", dep.AuditHandler.Get)
			})

			protected.Route("/users", func(ur chi.Router) {
				ur.Get("/", dep.UsersHandler.List)
				ur.Get("/{id}", dep.UsersHandler.Get)
			})
		})
	})

	return r
}
