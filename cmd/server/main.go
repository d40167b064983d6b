package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"os"
	"time"

	"volunteer-connect/internal/config"
	"volunteer-connect/internal/handler"
	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/service"
	"volunteer-connect/internal/web"
)

//go:embed dist/*
var staticFS embed.FS

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	if err := service.AutoMigrate(db); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authSvc := service.NewAuthService(db, tokens)
	chats := service.NewChatService(cfg.ReplyDelay(), cfg.ChatIdleTTL())
	go chats.RunJanitor(ctx, time.Minute)
	triage := service.NewTriageService(cfg.BoardIdleTTL())
	go triage.RunJanitor(ctx, time.Minute)

	importH := handler.NewImportHandler(triage)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := importH.Cleanup(); n > 0 {
				logger.Info("import.cleanup", "expired", n)
			}
		}
	}()

	r := handler.NewRouter(handler.Deps{
		Auth:   authSvc,
		Tokens: tokens,
		Chats:  chats,
		Triage: triage,
		Import: importH,
	})

	distFS, _ := fs.Sub(staticFS, "dist")
	web.New(web.Deps{
		AuthAPI:  service.NewAuthClient(cfg.AuthAPIBaseURL()),
		Accounts: authSvc,
		Tokens:   tokens,
		Chats:    chats,
		Triage:   triage,
		Contact:  service.NewContactService(db),
		Static:   distFS,
	}).Register(r)

	logger.Info("server starting", "addr", cfg.Addr(), "auth_api", cfg.AuthAPIBaseURL())
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", "err", err)
	}
}
