package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/lunapark/parkops/internal/http/handlers"
	"github.com/lunapark/parkops/internal/repo/postgres"
	"github.com/lunapark/parkops/internal/service"
	"github.com/lunapark/parkops/pkg/config"
	"github.com/lunapark/parkops/pkg/database"
	"github.com/lunapark/parkops/pkg/logger"
	mw "github.com/lunapark/parkops/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("Failed to run schema migration", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	visitorsRepo := postgres.NewVisitorsRepo(pool)
	attractionsRepo := postgres.NewAttractionsRepo(pool)
	ticketsRepo := postgres.NewTicketsRepo(pool)

	// Initialize services
	reportService := service.NewReportService(visitorsRepo, attractionsRepo, ticketsRepo)

	// Initialize handlers
	h := handlers.New(visitorsRepo, attractionsRepo, ticketsRepo, reportService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Routes
	r.Route("/visitors", func(r chi.Router) {
		r.Post("/", h.CreateVisitor)
		r.Get("/", h.ListVisitors)
		r.Get("/{id}", h.GetVisitor)
		r.Delete("/{id}", h.DeleteVisitor)
		r.Delete("/{id}/restrictions", h.RemoveRestriction)
		r.Post("/{id}/visits", h.AppendVisit)
		r.Get("/{id}/compatible-attractions", h.CompatibleAttractions)
	})

	r.Route("/attractions", func(r chi.Router) {
		r.Post("/", h.CreateAttraction)
		r.Get("/", h.ListAttractions)
		r.Get("/{id}", h.GetAttraction)
		r.Delete("/{id}", h.DeleteAttraction)
		r.Patch("/{id}/active", h.SetAttractionActive)
		r.Post("/{id}/features", h.AddFeature)
		r.Get("/{id}/visitors", h.AttractionVisitors)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", h.CreateTicket)
		r.Get("/", h.ListTickets)
		r.Get("/{id}", h.GetTicket)
		r.Delete("/{id}", h.DeleteTicket)
		r.Post("/{id}/use", h.UseTicket)
		r.Patch("/{id}/price", h.ChangeTicketPrice)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/top-attractions", h.TopAttractions)
		r.Get("/visitors-by-tickets", h.VisitorsByTickets)
		r.Get("/big-spenders", h.BigSpenders)
		r.Get("/summary", h.Summary)
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down park API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Park API shutdown error", "error", err)
		}
	}()

	logger.Info("Park API listening", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Park API server error", "error", err)
		os.Exit(1)
	}
}
