package models

import (
	"context"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "id, username, email, first_name, last_name, bio, role, is_active, created_at"

type UserModel struct {
	DB *pgxpool.Pool
}

func scanUser(row pgx.Row, dest ...any) (*models.User, error) {
	var user models.User
	dest = append(dest,
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Bio, &user.Role, &user.IsActive, &user.CreatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	row := m.DB.QueryRow(
		ctx,
		`INSERT INTO users (username, email, first_name, last_name, bio, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsActive,
	)
	return scanUser(row)
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(m.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(m.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(m.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (m *UserModel) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), `+userColumns+` FROM users
		WHERE (username ILIKE '%' || $1 || '%' OR $1 = '')
		ORDER BY username ASC
		LIMIT $2 OFFSET $3`,
		search, f.Limit(), f.Offset(),
	)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()
	users := []models.User{}
	totalRecords := 0
	for rows.Next() {
		user, err := scanUser(rows, &totalRecords)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return users, totalRecords, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	row := m.DB.QueryRow(
		ctx,
		`UPDATE users SET username = $1, email = $2, first_name = $3, last_name = $4, bio = $5, role = $6, is_active = $7
		WHERE id = $8
		RETURNING `+userColumns,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsActive, user.ID,
	)
	return scanUser(row)
}

func (m *UserModel) Activate(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET is_active = true WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *UserModel) Delete(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return mapErr(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
