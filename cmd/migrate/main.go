package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"vidtube/pkg/config"
	"vidtube/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

func main() {
	flag.Parse()
	args := flag.Args()

	log := logger.New()

	if len(args) < 1 {
		log.Error("Usage: migrate <up|down|status|create> [args]")
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("Failed to set dialect: %v", err)
		os.Exit(1)
	}

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "create":
		if len(args) < 2 {
			log.Error("Usage: migrate create <name>")
			os.Exit(1)
		}
		err = goose.Create(db, migrationsDir, args[1], "sql")
	default:
		log.Error("Unknown command: %s", command)
		os.Exit(1)
	}

	if err != nil {
		log.Error("Migration failed: %v", err)
		os.Exit(1)
	}
	log.Info("Migration command %q completed", command)
}
