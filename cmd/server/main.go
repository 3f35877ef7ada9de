package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/ingest"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/report"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/server"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/student"
)

func main() {
	log.Println("INFO: Starting NPTEL Management Backend...")

	// 1. Load Configuration
	shared.LoadEnv("")
	config, err := shared.LoadServiceConfig("nptel-backend")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := shared.ValidateServiceConfig(config); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	shared.PrintConfig(config)

	// 2. Connect to MongoDB
	mongoClient, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(mongoClient)

	// 3. Initialize Services
	studentService := student.NewService(db)
	facultyService := faculty.NewService(db)
	reportService := report.NewService(studentService, facultyService)
	reconciler := ingest.NewReconciler(studentService, config.Ingest, nil)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := studentService.EnsureIndexes(indexCtx); err != nil {
		log.Printf("Warning: failed to ensure indexes: %v", err)
	}
	indexCancel()

	// 4. Setup Routes and Middleware
	router := server.SetupRoutes(config, &server.Services{
		Students:   studentService,
		Faculties:  facultyService,
		Reports:    reportService,
		Reconciler: reconciler,
	})

	// 5. Configure Server
	httpServer := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Listening on port %s", config.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
