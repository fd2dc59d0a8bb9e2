package models

import (
	"context"
	"fmt"
	"slices"

	"yamdb/proj/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// adminQueries render each entity as an id and a human readable string.
var adminQueries = map[string]string{
	"users":      "SELECT id, username FROM users ORDER BY username",
	"categories": "SELECT id, name FROM categories ORDER BY name DESC",
	"genres":     "SELECT id, name FROM genres ORDER BY name DESC",
	"titles":     "SELECT id, name FROM titles ORDER BY id",
	"genre_titles": `SELECT gt.id, format('%s %s', t.name, g.name)
		FROM genre_titles gt
		JOIN titles t ON t.id = gt.title_id
		JOIN genres g ON g.id = gt.genre_id
		ORDER BY gt.id`,
	"reviews":  "SELECT id, left(text, 30) FROM reviews ORDER BY pub_date",
	"comments": "SELECT id, left(text, 30) FROM comments ORDER BY pub_date DESC",
}

type AdminModel struct {
	DB *pgxpool.Pool
}

func (m *AdminModel) Entities() []string {
	entities := make([]string, 0, len(adminQueries))
	for entity := range adminQueries {
		entities = append(entities, entity)
	}
	slices.Sort(entities)
	return entities
}

func (m *AdminModel) Entries(ctx context.Context, entity string) ([]models.AdminEntry, error) {
	query, ok := adminQueries[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	rows, _ := m.DB.Query(ctx, query)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AdminEntry, error) {
		var entry models.AdminEntry
		err := row.Scan(&entry.ID, &entry.Display)
		return entry, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return entries, nil
}
