package main

import (
	"context"
	"flag"
	"os"
	"time"

	"yamdb/proj/internal/api/tasks"
	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/mails"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/storage/postgres"
	pgmodels "yamdb/proj/internal/storage/postgres/models"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()
	log.Info("database connection established")

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.Dsn); err != nil {
			log.Error("failed to apply migrations", "errMsg", err.Error())
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	var mailer auth.MailProvider
	if cfg.SMTPServer.Host != "" {
		mailer = mails.New(
			cfg.SMTPServer.Host,
			cfg.SMTPServer.Port,
			cfg.SMTPServer.Timeout,
			cfg.SMTPServer.Username,
			cfg.SMTPServer.Password,
			cfg.SMTPServer.Sender,
			cfg.SMTPServer.RetriesCount,
		)
	} else {
		log.Warn("smtp host is not configured, emails will be logged")
		mailer = &mails.LogMailer{Log: log}
	}

	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.Run()

	svc := services.New(log, cfg, pgmodels.New(storage), mailer, bgTasks)
	app := NewApplication(cfg, log, svc, bgTasks, storage)
	if err := app.serve(); err != nil {
		log.Error("server stopped", "errMsg", err.Error())
		os.Exit(1)
	}
}
