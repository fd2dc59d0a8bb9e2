package models

import (
	"context"
	"fmt"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaxonomyModel backs both the categories and the genres tables.
type TaxonomyModel struct {
	DB    *pgxpool.Pool
	table string
}

func (m *TaxonomyModel) Insert(ctx context.Context, name, slug string) (*models.Taxon, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("INSERT INTO %s (name, slug) VALUES ($1, $2) RETURNING id, name, slug", m.table),
		name,
		slug,
	)
	taxon, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Taxon])
	if err != nil {
		return nil, mapErr(err)
	}
	return &taxon, nil
}

// GetBySlugs returns the entries whose slug is in slugs, ordered by name
// descending. Unknown slugs are silently left out.
func (m *TaxonomyModel) GetBySlugs(ctx context.Context, slugs []string) ([]models.Taxon, error) {
	return taxaBySlugs(ctx, m.DB, m.table, slugs)
}

func taxaBySlugs(ctx context.Context, q postgres.Querier, table string, slugs []string) ([]models.Taxon, error) {
	rows, _ := q.Query(
		ctx,
		fmt.Sprintf("SELECT id, name, slug FROM %s WHERE slug = ANY($1) ORDER BY name DESC, id", table),
		slugs,
	)
	taxa, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Taxon])
	if err != nil {
		return nil, mapErr(err)
	}
	return taxa, nil
}

func (m *TaxonomyModel) List(ctx context.Context, search string, slugs []string, f filters.Filters) ([]models.Taxon, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), id, name, slug FROM %s
	WHERE (name ILIKE '%%' || $1 || '%%' OR $1 = '')
	AND (slug = ANY($2) OR coalesce(cardinality($2::text[]), 0) = 0)
	ORDER BY name DESC, id ASC
	LIMIT $3 OFFSET $4
	`, m.table)
	rows, _ := m.DB.Query(ctx, query, search, slugs, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.Taxon
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, mapErr(err)
	}
	taxa := make([]models.Taxon, 0, len(outputRows))
	for _, row := range outputRows {
		taxa = append(taxa, row.Taxon)
	}
	totalRecords := 0
	if len(outputRows) > 0 {
		totalRecords = outputRows[0].Count
	}
	return taxa, totalRecords, nil
}

func (m *TaxonomyModel) Delete(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE slug = $1", m.table), slug)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
