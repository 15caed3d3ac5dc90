package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genadi53/next-ismp-sub001/internal/alias"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCanonical(ctx context.Context, rawName string) (string, error) {
	query := `
		SELECT canonical
		FROM object_aliases
		WHERE lower(raw_name) = lower($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var canonical string

	err := s.db.QueryRowContext(ctx, query, rawName).Scan(&canonical)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding alias: %w", err)
	}

	return canonical, nil
}

func (s *Store) CreateAlias(ctx context.Context, rawName, canonical string) error {
	query := `
		INSERT INTO object_aliases (raw_name, canonical, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (lower(raw_name)) DO UPDATE
		SET canonical = EXCLUDED.canonical, created_at = EXCLUDED.created_at
	`

	_, err := s.db.ExecContext(ctx, query, rawName, canonical)
	if err != nil {
		return fmt.Errorf("creating alias: %w", err)
	}

	return nil
}

func (s *Store) ListAliases(ctx context.Context) ([]alias.Alias, error) {
	query := `
		SELECT raw_name, canonical, created_at
		FROM object_aliases
		ORDER BY canonical ASC, raw_name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}
	defer rows.Close()

	var aliases []alias.Alias

	for rows.Next() {
		var a alias.Alias
		if err := rows.Scan(&a.RawName, &a.Canonical, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}

		aliases = append(aliases, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aliases: %w", err)
	}

	return aliases, nil
}
