package main

import (
	"context"
	"log/slog"

	"yamdb/proj/internal/api/tasks"
	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	Services     *services.Services
	tasks        *tasks.BackgroudTasks
	db           Pinger
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, services *services.Services, bgTasks *tasks.BackgroudTasks, db Pinger) *Application {
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	queryDecoder.SetAliasTag("query")
	return &Application{
		cfg:          cfg,
		log:          log,
		Services:     services,
		tasks:        bgTasks,
		db:           db,
		validator:    validator.New(),
		queryDecoder: queryDecoder,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
