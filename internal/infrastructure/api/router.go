package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers bundles the handler sets the router mounts.
type Handlers struct {
	Auth         *AuthHandlers
	Contacts     *ContactHandlers
	Pledges      *PledgeHandlers
	Activities   *ActivityHandlers
	Projects     *ProjectHandlers
	Orgs         *OrganizationHandlers
	Engagement   *EngagementHandlers
	Emails       *EmailHandlers
	Integrations *IntegrationHandlers

	Authenticator  Authenticator
	MetricsHandler http.Handler
	ClientURL      string
}

// NewRouter assembles the full HTTP surface.
func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if h.MetricsHandler != nil {
		r.Handle("/metrics", h.MetricsHandler)
	}

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Webhooks authenticate by obscurity of the endpoint plus event-level
		// dedupe; external CRMs cannot carry our bearer tokens.
		r.Post("/integrations/webhooks/{name}", h.Integrations.Webhook)

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.Authenticator))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.Contacts.List)
				r.Post("/", h.Contacts.Create)
				r.Get("/{id}", h.Contacts.Get)
				r.Put("/{id}", h.Contacts.Update)
				r.Delete("/{id}", h.Contacts.Delete)

				r.Get("/{id}/pledges", h.Pledges.ListByContact)
				r.Get("/{id}/activities", h.Activities.ListByContact)
				r.Get("/{id}/calls", h.Engagement.ListCallLogs)
				r.Get("/{id}/schedules", h.Engagement.ListSchedules)
				r.Get("/{id}/comments", h.Engagement.ListComments)
			})

			r.Route("/pledges", func(r chi.Router) {
				r.Get("/", h.Pledges.List)
				r.Post("/", h.Pledges.Create)
				r.Get("/{id}", h.Pledges.Get)
				r.Put("/{id}", h.Pledges.Update)
				r.Delete("/{id}", h.Pledges.Delete)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Post("/", h.Activities.Create)
				r.Get("/{id}", h.Activities.Get)
				r.Put("/{id}", h.Activities.Update)
				r.Delete("/{id}", h.Activities.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Projects.List)
				r.Post("/", h.Projects.Create)
				r.Get("/{id}", h.Projects.Get)
				r.Put("/{id}", h.Projects.Update)
				r.Delete("/{id}", h.Projects.Delete)

				r.Get("/{id}/stages", h.Projects.ListStages)
				r.Post("/{id}/stages", h.Projects.CreateStage)
				r.Get("/{id}/deals", h.Projects.ListDeals)
				r.Post("/{id}/deals", h.Projects.CreateDeal)
			})
			r.Put("/deals/{id}", h.Projects.UpdateDeal)
			r.Delete("/deals/{id}", h.Projects.DeleteDeal)

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", h.Orgs.List)
				r.Post("/", h.Orgs.Create)
				r.Get("/{id}", h.Orgs.Get)
				r.Put("/{id}", h.Orgs.Update)
				r.Delete("/{id}", h.Orgs.Delete)
			})

			r.Post("/call-logs", h.Engagement.CreateCallLog)
			r.Delete("/call-logs/{id}", h.Engagement.DeleteCallLog)

			r.Get("/schedules/upcoming", h.Engagement.ListUpcomingSchedules)
			r.Post("/schedules", h.Engagement.CreateSchedule)
			r.Put("/schedules/{id}", h.Engagement.UpdateSchedule)
			r.Delete("/schedules/{id}", h.Engagement.DeleteSchedule)

			r.Post("/comments", h.Engagement.CreateComment)
			r.Delete("/comments/{id}", h.Engagement.DeleteComment)

			r.Route("/emails", func(r chi.Router) {
				r.Get("/contact/{id}", h.Emails.ListByContact)
				r.Post("/send/{id}", h.Emails.Send)
				r.Get("/stats", h.Emails.Stats)
				r.Put("/{id}/opened", h.Emails.MarkOpened)
			})

			r.Route("/integrations", func(r chi.Router) {
				r.Get("/status", h.Integrations.Status)
				r.Post("/{name}/test", h.Integrations.Test)
				r.Post("/sync/contact/{id}", h.Integrations.SyncContact)
				r.Post("/sync/pledge/{id}", h.Integrations.SyncPledge)
				r.Post("/sync/activity/{id}", h.Integrations.SyncActivity)
			})
		})
	})

	return r
}
