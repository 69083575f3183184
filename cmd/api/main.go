package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gharinto/internal/config"
	"gharinto/internal/database"
	"gharinto/internal/middleware"
	"gharinto/internal/modules/auth"
	"gharinto/internal/modules/lead"
	"gharinto/internal/modules/notification"
	"gharinto/internal/modules/project"
	"gharinto/internal/modules/wallet"
	"gharinto/internal/pkg/events"
	jwtsvc "gharinto/internal/pkg/jwt"
	"gharinto/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	eventLog := events.New(cfg.LogLevel, cfg.AppEnv)
	defer eventLog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := wallet.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	notifRepo := notification.NewRepository(db)
	notifService := notification.NewService(notifRepo, hub)
	notifHandler := notification.NewHandler(notifService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	leadService := lead.NewService(leadRepo, userRepo, notifService, eventLog)
	leadHandler := lead.NewHandler(leadService)

	projectService := project.NewService(projectRepo)
	projectHandler := project.NewHandler(projectService)

	walletService := wallet.NewService(db)
	walletHandler := wallet.NewHandler(walletService)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(eventLog.Zap()))
	r.Use(middleware.RequestLogger(eventLog.Zap()))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		leadHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			leadHandler.RegisterProtectedRoutes(protected)
			projectHandler.RegisterProtectedRoutes(protected)
			walletHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
