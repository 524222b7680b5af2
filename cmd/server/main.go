package main

import (
	"fmt"

	"maintenance-hub/internal/auth"
	"maintenance-hub/internal/config"
	"maintenance-hub/internal/database"
	"maintenance-hub/internal/handlers"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := cfg.Logger()

	mode, err := policy.ParseMode(cfg.OrderStatusMode)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := database.Open(cfg.DBDSN, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handlers.Handler{
		Tokens:        tokens,
		Transitions:   policy.NewTransitions(mode),
		Mailer:        handlers.LogMailer{Log: log},
		Log:           log,
		SessionTTL:    cfg.SessionTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	}
	r := server.NewRouter(cfg, db, h, log)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.WithField("order_status_mode", mode).Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
