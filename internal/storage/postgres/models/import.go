package models

import (
	"context"
	"fmt"

	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

// importColumns lists the tables a bulk import may write and the column
// order the rows are expected in.
var importColumns = map[string][]string{
	"categories":   {"id", "name", "slug"},
	"genres":       {"id", "name", "slug"},
	"users":        {"id", "username", "email", "role", "bio", "first_name", "last_name", "is_active"},
	"titles":       {"id", "name", "year", "category_id"},
	"genre_titles": {"id", "title_id", "genre_id"},
	"reviews":      {"id", "title_id", "text", "author_id", "score", "pub_date"},
	"comments":     {"id", "review_id", "text", "author_id", "pub_date"},
}

type ImportModel struct {
	DB *postgres.PostgresDB
}

// Copy loads rows into table in a single transaction and moves the id
// sequence past the highest imported id.
func (m *ImportModel) Copy(ctx context.Context, table string, rows [][]any) (int64, error) {
	columns, ok := importColumns[table]
	if !ok {
		return 0, fmt.Errorf("table %q is not importable", table)
	}
	var copied int64
	err := m.DB.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return mapErr(err)
		}
		_, err = tx.Exec(
			ctx,
			fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), coalesce(max(id), 1), max(id) IS NOT NULL) FROM %[1]s",
				table,
			),
		)
		return mapErr(err)
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
