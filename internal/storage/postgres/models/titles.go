package models

import (
	"context"
	"errors"
	"slices"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

type TitleModel struct {
	DB *postgres.PostgresDB
}

const titleColumns = `
	t.id, t.name, t.year, t.description, c.id, c.name, c.slug,
	(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id)`

func scanTitle(row pgx.Row, dest ...any) (*models.Title, error) {
	var (
		title                 models.Title
		categoryID            *int64
		categoryName, catSlug *string
		mean                  *float64
	)
	dest = append(dest,
		&title.ID, &title.Name, &title.Year, &title.Description,
		&categoryID, &categoryName, &catSlug, &mean,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if categoryID != nil {
		title.Category = &models.Category{ID: *categoryID, Name: *categoryName, Slug: *catSlug}
	}
	title.Rating = models.NewRating(mean)
	title.Genres = []models.Genre{}
	return &title, nil
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	row := m.DB.Conn.QueryRow(
		ctx,
		`SELECT `+titleColumns+`
		FROM titles t LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1`,
		id,
	)
	title, err := scanTitle(row)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := m.attachGenres(ctx, []*models.Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

func (m *TitleModel) List(ctx context.Context, tf filters.TitleFilter, f filters.Filters) ([]models.Title, int, error) {
	rows, err := m.DB.Conn.Query(
		ctx,
		`SELECT count(*) OVER(), `+titleColumns+`
		FROM titles t LEFT JOIN categories c ON c.id = t.category_id
		WHERE (strpos(t.name, $1) > 0 OR $1 = '')
		AND (c.slug = ANY($2) OR coalesce(cardinality($2::text[]), 0) = 0)
		AND (coalesce(cardinality($3::text[]), 0) = 0 OR EXISTS (
			SELECT 1 FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id
			WHERE gt.title_id = t.id AND g.slug = ANY($3)
		))
		AND (t.year = $4 OR $4 = 0)
		ORDER BY t.id ASC
		LIMIT $5 OFFSET $6`,
		tf.Name, tf.Categories, tf.Genres, tf.Year, f.Limit(), f.Offset(),
	)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()
	var (
		titles       []*models.Title
		totalRecords int
	)
	for rows.Next() {
		title, err := scanTitle(rows, &totalRecords)
		if err != nil {
			return nil, 0, mapErr(err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	if err := m.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	out := make([]models.Title, 0, len(titles))
	for _, title := range titles {
		out = append(out, *title)
	}
	return out, totalRecords, nil
}

func (m *TitleModel) attachGenres(ctx context.Context, titles []*models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}
	rows, err := m.DB.Conn.Query(
		ctx,
		`SELECT gt.title_id, g.id, g.name, g.slug
		FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name, g.id`,
		ids,
	)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			titleID int64
			genre   models.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return err
		}
		title := byID[titleID]
		title.Genres = append(title.Genres, genre)
	}
	return rows.Err()
}

// Insert stores the title and its genre associations in one transaction.
func (m *TitleModel) Insert(ctx context.Context, draft models.TitleDraft) (*models.Title, error) {
	var id int64
	err := m.DB.WithTx(ctx, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveRelations(ctx, tx, draft)
		if err != nil {
			return err
		}
		err = tx.QueryRow(
			ctx,
			`INSERT INTO titles (name, year, description, category_id)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			draft.Name, draft.Year, draft.Description, categoryID,
		).Scan(&id)
		if err != nil {
			return mapErr(err)
		}
		return linkGenres(ctx, tx, id, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

// Update overwrites the title's fields. Genre associations are replaced
// only when replaceGenres is set.
func (m *TitleModel) Update(ctx context.Context, id int64, draft models.TitleDraft, replaceGenres bool) (*models.Title, error) {
	err := m.DB.WithTx(ctx, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveRelations(ctx, tx, draft)
		if err != nil {
			return err
		}
		status, err := tx.Exec(
			ctx,
			`UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4
			WHERE id = $5`,
			draft.Name, draft.Year, draft.Description, categoryID, id,
		)
		if err != nil {
			return mapErr(err)
		}
		if status.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if !replaceGenres {
			return nil
		}
		if _, err := tx.Exec(ctx, "DELETE FROM genre_titles WHERE title_id = $1", id); err != nil {
			return mapErr(err)
		}
		return linkGenres(ctx, tx, id, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Conn.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func resolveRelations(ctx context.Context, tx pgx.Tx, draft models.TitleDraft) (categoryID *int64, genreIDs []int64, err error) {
	if draft.CategorySlug != nil {
		var id int64
		err := tx.QueryRow(ctx, "SELECT id FROM categories WHERE slug = $1", *draft.CategorySlug).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, &storage.RelationError{Relation: "category"}
			}
			return nil, nil, mapErr(err)
		}
		categoryID = &id
	}
	slugs := slices.Clone(draft.GenreSlugs)
	slices.Sort(slugs)
	slugs = slices.Compact(slugs)
	if len(slugs) == 0 {
		return categoryID, nil, nil
	}
	genres, err := taxaBySlugs(ctx, tx, "genres", slugs)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(slugs) {
		return nil, nil, &storage.RelationError{Relation: "genre"}
	}
	for _, genre := range genres {
		genreIDs = append(genreIDs, genre.ID)
	}
	return categoryID, genreIDs, nil
}

func linkGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		"INSERT INTO genre_titles (title_id, genre_id) SELECT $1, unnest($2::bigint[])",
		titleID, genreIDs,
	)
	return mapErr(err)
}

func (m *TitleModel) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.DB.Conn.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}
