// Command migrate applies the SQL migrations and exits.  Running it again
// applies nothing.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/config"
	"github.com/iliyamo/repair-shop/internal/database"
)

func main() {
	dir := flag.String("dir", "", "directory of NNN_name.up.sql files; the embedded set when empty")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if *dir == "" {
		*dir = cfg.MigrationsDir
	}

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rep, err := database.Apply(ctx, db, *dir, log)
	if err != nil {
		log.Fatal("migrate", zap.Error(err), zap.Strings("applied", rep.Applied))
	}
	log.Info("migrate finished", zap.Strings("applied", rep.Applied), zap.Int("skipped", len(rep.Skipped)))
}
