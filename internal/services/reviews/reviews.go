package reviews

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/storage"
)

type ReviewStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type TitleChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReviewService struct {
	log     *slog.Logger
	storage ReviewStorage
	titles  TitleChecker
}

func New(log *slog.Logger, storage ReviewStorage, titles TitleChecker) *ReviewService {
	return &ReviewService{
		log:     log,
		storage: storage,
		titles:  titles,
	}
}

// Create adds the author's review of a title. The publication date is
// assigned by the store. Of two concurrent reviews by the same author on
// the same title exactly one succeeds, the other gets ErrDuplicateReview.
func (s *ReviewService) Create(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "titleID", titleID, "authorID", authorID, "score", score)
	if !models.ValidScore(score) {
		log.Info("score out of range")
		return nil, ErrScoreOutOfRange
	}
	review, err := s.storage.Insert(ctx, titleID, authorID, text, score)
	if err != nil {
		switch {
		case storage.IsRelation(err, "title"):
			log.Info("title not found")
			return nil, ErrUnknownTitle
		case errors.Is(err, storage.ErrConflict):
			log.Info("duplicate review")
			return nil, ErrDuplicateReview
		case errors.Is(err, storage.ErrConstraint):
			return nil, ErrScoreOutOfRange
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID)
	review, err := s.storage.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// List returns the title's reviews, oldest first.
func (s *ReviewService) List(ctx context.Context, titleID int64, page int) ([]models.Review, filters.Metadata, error) {
	const op = "reviews.ReviewService.List"
	log := s.log.With("op", op, "titleID", titleID, "page", page)
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	if !exists {
		log.Info("title not found")
		return nil, filters.Metadata{}, ErrUnknownTitle
	}
	f := filters.New(page)
	reviews, total, err := s.storage.List(ctx, titleID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return reviews, filters.CalculateMetadata(total, f), nil
}

// Update changes the text and score of a review on behalf of actor. The
// author and title of a review never change.
func (s *ReviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID)
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(permissions.AuthorOrStaff, actor, review.AuthorID); err != nil {
		log.Info("permission denied", "reason", err.Error())
		return nil, err
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if !models.ValidScore(*score) {
			log.Info("score out of range")
			return nil, ErrScoreOutOfRange
		}
		review.Score = *score
	}
	updated, err := s.storage.Update(ctx, review)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, storage.ErrConstraint):
			return nil, ErrScoreOutOfRange
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "titleID", titleID, "reviewID", reviewID)
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := permissions.Check(permissions.AuthorOrStaff, actor, review.AuthorID); err != nil {
		log.Info("permission denied", "reason", err.Error())
		return err
	}
	if err := s.storage.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
