package models

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenModel struct {
	DB *pgxpool.Pool
}

func (m *TokenModel) Insert(ctx context.Context, hash []byte, userID int64, expiry time.Time, scope string) error {
	_, err := m.DB.Exec(
		ctx,
		"INSERT INTO tokens (hash, user_id, expiry, scope) VALUES ($1, $2, $3, $4)",
		hash, userID, expiry, scope,
	)
	return mapErr(err)
}

// Exists reports whether an unexpired token with hash and scope belongs to
// the user.
func (m *TokenModel) Exists(ctx context.Context, hash []byte, userID int64, scope string, now time.Time) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM tokens WHERE hash = $1 AND user_id = $2 AND scope = $3 AND expiry > $4
		)`,
		hash, userID, scope, now,
	).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

func (m *TokenModel) DeleteAllForUser(ctx context.Context, scope string, userID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM tokens WHERE scope = $1 AND user_id = $2", scope, userID)
	return mapErr(err)
}
