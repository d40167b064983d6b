package main

import (
	"context"
	"flag"
	"log"
	"os"

	"volunteer-connect/internal/config"
	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file (e.g. etc/config-dev.yaml)")
	sheet := flag.String("sheet", "", "also write a sample request import workbook to this path")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}
	if err := service.AutoMigrate(db); err != nil {
		log.Fatal("db migrate failed: ", err)
	}
	ctx := context.Background()

	// Step 1: demo accounts
	auth := service.NewAuthService(db, service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL()))
	if err := seedAccounts(ctx, auth); err != nil {
		log.Fatal("seed accounts failed: ", err)
	}

	// Step 2: import template
	if *sheet != "" {
		if err := writeSheet(*sheet); err != nil {
			log.Fatal("write sheet failed: ", err)
		}
	}

	logger.Info("=== all done ===")
}

func writeSheet(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := service.WriteRequestSheet(f, service.SeedRequests()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("seed: sample sheet written", "path", path)
	return nil
}
