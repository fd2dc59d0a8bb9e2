package models

import (
	"context"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentModel struct {
	DB *pgxpool.Pool
}

func scanComment(row pgx.Row, dest ...any) (*models.Comment, error) {
	var comment models.Comment
	dest = append(dest,
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.AuthorUsername,
		&comment.Text, &comment.PubDate,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	row := m.DB.QueryRow(
		ctx,
		`WITH c AS (
			INSERT INTO comments (review_id, author_id, text) VALUES ($1, $2, $3)
			RETURNING id, review_id, author_id, text, pub_date
		)
		SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
		FROM c JOIN users u ON u.id = c.author_id`,
		reviewID, authorID, text,
	)
	return scanComment(row)
}

// Get resolves the comment through its review so that a comment is only
// reachable under the title its review belongs to.
func (m *CommentModel) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	row := m.DB.QueryRow(
		ctx,
		`SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
		FROM comments c
		JOIN reviews r ON r.id = c.review_id
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.review_id = $2 AND r.title_id = $3`,
		commentID, reviewID, titleID,
	)
	return scanComment(row)
}

func (m *CommentModel) List(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.pub_date DESC, c.id DESC
		LIMIT $2 OFFSET $3`,
		reviewID, f.Limit(), f.Offset(),
	)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()
	comments := []models.Comment{}
	totalRecords := 0
	for rows.Next() {
		comment, err := scanComment(rows, &totalRecords)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return comments, totalRecords, nil
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	row := m.DB.QueryRow(
		ctx,
		`WITH c AS (
			UPDATE comments SET text = $1 WHERE id = $2 AND review_id = $3
			RETURNING id, review_id, author_id, text, pub_date
		)
		SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
		FROM c JOIN users u ON u.id = c.author_id`,
		comment.Text, comment.ID, comment.ReviewID,
	)
	return scanComment(row)
}

func (m *CommentModel) Delete(ctx context.Context, reviewID, commentID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND review_id = $2", commentID, reviewID)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
