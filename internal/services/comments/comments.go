package comments

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/storage"
)

type CommentStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	List(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, commentID int64) error
}

type ReviewProvider interface {
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
}

type CommentService struct {
	log     *slog.Logger
	storage CommentStorage
	reviews ReviewProvider
}

func New(log *slog.Logger, storage CommentStorage, reviews ReviewProvider) *CommentService {
	return &CommentService{
		log:     log,
		storage: storage,
		reviews: reviews,
	}
}

// resolveReview makes sure reviewID belongs to titleID.
func (s *CommentService) resolveReview(ctx context.Context, log *slog.Logger, titleID, reviewID int64) error {
	if _, err := s.reviews.Get(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrUnknownReview
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CommentService) Create(ctx context.Context, titleID, reviewID, authorID int64, text string) (*models.Comment, error) {
	const op = "comments.CommentService.Create"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID, "authorID", authorID)
	if err := s.resolveReview(ctx, log, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.storage.Insert(ctx, reviewID, authorID, text)
	if err != nil {
		if storage.IsRelation(err, "review") {
			log.Info("review deleted concurrently")
			return nil, ErrUnknownReview
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "comments.CommentService.Get"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID, "commentID", commentID)
	comment, err := s.storage.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

// List returns the review's comments, newest first.
func (s *CommentService) List(ctx context.Context, titleID, reviewID int64, page int) ([]models.Comment, filters.Metadata, error) {
	const op = "comments.CommentService.List"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID, "page", page)
	if err := s.resolveReview(ctx, log, titleID, reviewID); err != nil {
		return nil, filters.Metadata{}, err
	}
	f := filters.New(page)
	comments, total, err := s.storage.List(ctx, reviewID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return comments, filters.CalculateMetadata(total, f), nil
}

func (s *CommentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text string) (*models.Comment, error) {
	const op = "comments.CommentService.Update"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID, "commentID", commentID)
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(permissions.AuthorOrStaff, actor, comment.AuthorID); err != nil {
		log.Info("permission denied", "reason", err.Error())
		return nil, err
	}
	comment.Text = text
	updated, err := s.storage.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	const op = "comments.CommentService.Delete"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID, "commentID", commentID)
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := permissions.Check(permissions.AuthorOrStaff, actor, comment.AuthorID); err != nil {
		log.Info("permission denied", "reason", err.Error())
		return err
	}
	if err := s.storage.Delete(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
