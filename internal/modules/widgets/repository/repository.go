package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed sql/get-value.sql
var getValueSQL string

//go:embed sql/set-value.sql
var setValueSQL string

// KVRepository is a text key-value store. Set overwrites unconditionally.
type KVRepository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) KVRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, getValueSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (r *repositoryImpl) Set(ctx context.Context, key string, value string) error {
	if _, err := r.db.ExecContext(ctx, setValueSQL, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}
