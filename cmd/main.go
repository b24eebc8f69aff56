package main

import (
	"context"
	"log"

	"rolloutlog.com/internal/api"
	"rolloutlog.com/internal/config"
	"rolloutlog.com/internal/infra"
	"rolloutlog.com/internal/service"
)

func main() {
	cfg := config.LoadConfig()

	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb := infra.NewRedisClient(cfg.Redis)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	if cfg.JWT.Secret == "" {
		// Not fatal: affected endpoints answer 500 until the secret is set.
		log.Println("Warning: JWT secret is not configured")
	}

	denylist := infra.NewRedisDenylist(rdb)
	authSvc := service.NewAuthService(pg.DB, cfg, denylist)
	changeLogSvc := service.NewChangeLogService(pg.DB)

	app := api.NewServer(cfg)
	api.NewRouter(app, cfg, authSvc, changeLogSvc).RegisterRoutes()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
