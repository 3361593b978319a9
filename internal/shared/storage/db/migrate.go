package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"jobprep-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its dialect, filesystem and logger in package state.
var migrateMu sync.Mutex

// RunMigrations brings the documents, analyses, improved_resumes and usage
// tables up to the embedded schema version. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	from, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	to, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	telemetry.Info("db.migrated", map[string]any{"from_version": from, "to_version": to})
	return nil
}

// gooseLogger routes goose output through the process logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	telemetry.Info("db.migrate", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...any) {
	telemetry.Error("db.migrate_fatal", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
	telemetry.Sync()
	os.Exit(1)
}
