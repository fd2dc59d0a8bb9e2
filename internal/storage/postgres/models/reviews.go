package models

import (
	"context"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

func scanReview(row pgx.Row, dest ...any) (*models.Review, error) {
	var review models.Review
	dest = append(dest,
		&review.ID, &review.TitleID, &review.AuthorID, &review.AuthorUsername,
		&review.Text, &review.Score, &review.PubDate,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	return &review, nil
}

// Insert relies on the unique (author_id, title_id) index: of two
// concurrent inserts for the same pair exactly one succeeds and the other
// gets storage.ErrConflict.
func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	row := m.DB.QueryRow(
		ctx,
		`WITH r AS (
			INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4)
			RETURNING id, title_id, author_id, text, score, pub_date
		)
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
		FROM r JOIN users u ON u.id = r.author_id`,
		titleID, authorID, text, score,
	)
	return scanReview(row)
}

func (m *ReviewModel) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	row := m.DB.QueryRow(
		ctx,
		`SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
		FROM reviews r JOIN users u ON u.id = r.author_id
		WHERE r.id = $1 AND r.title_id = $2`,
		reviewID, titleID,
	)
	return scanReview(row)
}

func (m *ReviewModel) List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
		FROM reviews r JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.pub_date ASC, r.id ASC
		LIMIT $2 OFFSET $3`,
		titleID, f.Limit(), f.Offset(),
	)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()
	reviews := []models.Review{}
	totalRecords := 0
	for rows.Next() {
		review, err := scanReview(rows, &totalRecords)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return reviews, totalRecords, nil
}

func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	row := m.DB.QueryRow(
		ctx,
		`WITH r AS (
			UPDATE reviews SET text = $1, score = $2 WHERE id = $3 AND title_id = $4
			RETURNING id, title_id, author_id, text, score, pub_date
		)
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
		FROM r JOIN users u ON u.id = r.author_id`,
		review.Text, review.Score, review.ID, review.TitleID,
	)
	return scanReview(row)
}

func (m *ReviewModel) Delete(ctx context.Context, titleID, reviewID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1 AND title_id = $2", reviewID, titleID)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
