package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Brightside-Labs/Compass/internal/criteria"
	"github.com/Brightside-Labs/Compass/internal/events"
	"github.com/Brightside-Labs/Compass/internal/store"
)

func NewRouter(s store.Store, e events.Client, g criteria.Generator, authToken string, requestsPerMinute int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(requestsPerMinute))

	items := NewBacklogHandler(s, e, logger)
	agile := NewAgileHandler(s, e)
	lms := NewLMSHandler(s, e)
	gen := NewCriteriaHandler(g)

	r.Route("/psa", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(authToken))

		r.Get("/backlog/{projectID}", items.Hierarchy)
		r.Post("/backlog/{projectID}", items.Create)
		r.Get("/backlog/{projectID}/board", items.Board)
		r.Get("/backlog/item/{id}", items.Get)
		r.Put("/backlog/item/{id}", items.Update)
		r.Delete("/backlog/item/{id}", items.Delete)
		r.Patch("/backlog/item/{id}/status", items.UpdateStatus)
		r.Get("/backlog/item/{id}/matches", items.Matches)

		r.Post("/generate-acceptance-criteria", gen.Generate)

		r.Get("/projects/{projectID}/sprints", agile.ListSprints)
		r.Post("/projects/{projectID}/sprints", agile.CreateSprint)
		r.Get("/sprints/{id}", agile.GetSprint)
		r.Put("/sprints/{id}", agile.UpdateSprint)
		r.Delete("/sprints/{id}", agile.DeleteSprint)

		r.Get("/projects/{projectID}/program-increments", agile.ListProgramIncrements)
		r.Post("/projects/{projectID}/program-increments", agile.CreateProgramIncrement)
		r.Get("/program-increments/{id}", agile.GetProgramIncrement)
		r.Put("/program-increments/{id}", agile.UpdateProgramIncrement)
		r.Delete("/program-increments/{id}", agile.DeleteProgramIncrement)

		r.Get("/resources", agile.ListResources)
		r.Post("/resources", agile.CreateResource)
		r.Get("/resources/{id}", agile.GetResource)
		r.Put("/resources/{id}", agile.UpdateResource)
		r.Delete("/resources/{id}", agile.DeleteResource)

		r.Get("/projects/{projectID}/stats", agile.ProjectStats)
	})

	r.Route("/lms", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(authToken))

		r.Get("/courses", lms.ListCourses)
		r.Post("/courses", lms.CreateCourse)
		r.Get("/courses/{id}", lms.GetCourse)
		r.Put("/courses/{id}", lms.UpdateCourse)
		r.Delete("/courses/{id}", lms.DeleteCourse)

		r.Get("/courses/{id}/videos", lms.ListVideos)
		r.Post("/courses/{id}/videos", lms.CreateVideo)
		r.Get("/videos/{id}", lms.GetVideo)
		r.Put("/videos/{id}", lms.UpdateVideo)
		r.Delete("/videos/{id}", lms.DeleteVideo)

		r.Get("/videos/{id}/documents", lms.ListDocuments)
		r.Post("/videos/{id}/documents", lms.CreateDocument)
		r.Delete("/documents/{id}", lms.DeleteDocument)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
