package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata" // Load timezone data

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/app"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/middleware"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/realtime"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	utils.InitLogger(constants.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize the application:", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realtime
	hub := realtime.NewHub()
	go hub.Run(ctx)

	// Services
	messenger := services.NewMessenger(cfg)
	svc := app.NewServices(cfg, application.Store, application.Revoked, messenger, hub)

	seedCtx, seedCancel := context.WithTimeout(ctx, constants.SeedTimeout)
	if err := svc.Policies.EnsureDefaults(seedCtx); err != nil {
		utils.Logger.Fatal("Failed to seed default commission policies:", err)
	}
	// Conditionally seed demo data if the feature flag is enabled.
	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedTestData(seedCtx, application.Store); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}
	seedCancel()

	// Daily reminder about packages still waiting on a commission payout
	c := cron.New(cron.WithLocation(time.UTC))
	_, schErr := c.AddFunc(cfg.CommissionReminderCron, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), constants.CommissionReminderJobTimeout)
		defer cancel()
		if _, err := svc.Notifications.SendCommissionReminder(jobCtx); err != nil {
			utils.Logger.WithError(err).Error("Scheduled commission reminder failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule commission reminder job")
	}
	c.Start()
	defer c.Stop()

	// gRPC health
	go func() {
		if err := app.ServeGRPC(ctx, cfg.GRPCPort, application.Store); err != nil {
			utils.Logger.WithError(err).Error("gRPC health server stopped")
		}
	}()

	// Router
	router, err := app.NewRouter(cfg, application.Store, svc, hub)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to build router")
	}

	// CORS
	co := cors.New(cors.Options{
		AllowedOrigins:   app.AllowedOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: middleware.RequestLogger(co.Handler(router)),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.Logger.WithError(err).Error("HTTP server shutdown failed")
		}
	}()

	utils.Logger.Infof("Starting %s on port %s", cfg.AppName, cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Logger.Fatal("Server failed:", err)
	}
	utils.Logger.Info("Server stopped.")
}
