package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/ingest"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/report"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/handlers"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/student"
)

// Services bundles the wired service layer the router needs.
type Services struct {
	Students   *student.Service
	Faculties  *faculty.Service
	Reports    *report.Service
	Reconciler *ingest.Reconciler
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(cfg *shared.ServiceConfig, svc *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	uploadHandler := &handlers.UploadHandler{
		Reconciler:     svc.Reconciler,
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
	}
	studentHandler := &handlers.StudentHandler{Students: svc.Students}
	facultyHandler := &handlers.FacultyHandler{Faculties: svc.Faculties}
	reportHandler := &handlers.ReportHandler{Reports: svc.Reports}
	adminHandler := &handlers.AdminHandler{Students: svc.Students}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// Bulk ingestion
		r.Post("/upload/results", uploadHandler.UploadResults)

		// Reports
		r.Get("/report/submissions", reportHandler.GetSubmissions)

		// Student records
		r.Route("/students", func(r chi.Router) {
			r.Post("/", studentHandler.CreateStudent)
			r.Get("/", studentHandler.ListStudents)
			r.Get("/{roll}", studentHandler.GetStudent)
			r.Put("/{roll}/courses", studentHandler.AddCourse)
		})

		// Faculty records
		r.Route("/faculty", func(r chi.Router) {
			r.Post("/", facultyHandler.CreateFaculty)
			r.Get("/", facultyHandler.ListFaculty)
		})

		// Admin bulk operations
		r.Route("/admin", func(r chi.Router) {
			r.Delete("/students", adminHandler.DeleteAllStudents)
			r.Post("/results/reset", adminHandler.ResetAllResults)
		})
	})

	return r
}
