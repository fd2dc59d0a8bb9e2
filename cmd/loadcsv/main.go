package main

import (
	"context"
	"flag"
	"os"
	"time"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/importer"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/storage/postgres"
	pgmodels "yamdb/proj/internal/storage/postgres/models"
)

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	dir := flag.String("dir", "static/data", "directory with the csv files")
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
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.Dsn); err != nil {
			log.Error("failed to apply migrations", "errMsg", err.Error())
			os.Exit(1)
		}
	}

	imp := importer.New(log, pgmodels.New(storage).Import, nil)
	failed := 0
	for _, res := range imp.Run(context.Background(), *dir) {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Warn("import finished with errors", "failedFiles", failed)
		os.Exit(1)
	}
	log.Info("import finished")
}
