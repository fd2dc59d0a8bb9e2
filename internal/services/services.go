package services

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/comments"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/taxonomy"
	"yamdb/proj/internal/services/titles"
	"yamdb/proj/internal/services/users"
	pgmodels "yamdb/proj/internal/storage/postgres/models"
)

type Services struct {
	Categories *taxonomy.TaxonomyService
	Genres     *taxonomy.TaxonomyService
	Titles     *titles.TitleService
	Reviews    *reviews.ReviewService
	Comments   *comments.CommentService
	Users      *users.UserService
	Auth       *auth.AuthService
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	models *pgmodels.Models,
	mailer auth.MailProvider,
	taskExecutor auth.TaskExecutor,
) *Services {
	usersService := users.New(log, models.User)
	return &Services{
		Categories: taxonomy.New(log, models.Category, "category"),
		Genres:     taxonomy.New(log, models.Genre, "genre"),
		Titles:     titles.New(log, models.Title, nil),
		Reviews:    reviews.New(log, models.Review, models.Title),
		Comments:   comments.New(log, models.Comment, models.Review),
		Users:      usersService,
		Auth: auth.New(log, usersService, models.Token, mailer, taskExecutor, auth.Options{
			Secret:         cfg.AppSecret,
			CodeTTL:        cfg.Auth.ConfirmationCodeTTL,
			AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		}),
	}
}
