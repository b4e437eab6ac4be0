/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RequestLog: Structured access log (zerolog) tagged with the request ID
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the planning frontend

ROUTE GROUPS:
  /api/companies/{companyID}/*   Company-scoped planning data and reports
  /api/periods                   View option -> window resolution
  /api/leave-types               Registered leave types
  /api/scenarios/*               Demo scenarios
  /healthz                       Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// DefaultCORSOrigins are allowed when no origins are configured.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	if len(corsOrigins) == 0 {
		corsOrigins = DefaultCORSOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/periods", h.GetPeriod)
		r.Get("/leave-types", h.ListLeaveTypes)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Post("/", h.CreateCompany)

			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", h.GetCompany)
				r.Put("/settings", h.UpdateSettings)

				r.Get("/members", h.ListMembers)
				r.Post("/members", h.SaveMember)
				r.Delete("/members/{memberID}", h.DeleteMember)

				r.Get("/projects", h.ListProjects)
				r.Post("/projects", h.SaveProject)

				r.Get("/allocations", h.ListAllocations)
				r.Put("/allocations", h.UpsertAllocations)

				r.Get("/leave", h.ListLeave)
				r.Post("/leave", h.SubmitLeave)
				r.Delete("/leave/{leaveID}", h.DeleteLeave)

				r.Get("/holidays", h.ListHolidays)
				r.Post("/holidays", h.CreateHoliday)

				r.Get("/dashboard", h.GetDashboard)
				r.Get("/grid", h.GetGrid)
				r.Get("/grid.xlsx", h.ExportGrid)
			})
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// RequestLog writes one structured log line per request.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}
