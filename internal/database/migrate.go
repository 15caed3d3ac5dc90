package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/genadi53/next-ismp-sub001/migrations"
)

func init() {
	goose.SetBaseFS(migrations.FS)
}

// Migrate runs a goose command against the embedded migrations.
// Supported commands are up, down and status.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	var err error

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}

	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	return nil
}
