package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_scans",
		SQL: `CREATE TABLE IF NOT EXISTS scans (
  id               UUID        PRIMARY KEY,
  target           TEXT        NOT NULL,
  service          TEXT        NOT NULL,
  port             INTEGER     NOT NULL CHECK (port BETWEEN 1 AND 65535),
  status           TEXT        NOT NULL CHECK (status IN ('completed', 'failed')),
  command_line     TEXT        NOT NULL,
  exit_code        INTEGER     NOT NULL,
  credential_count INTEGER     NOT NULL DEFAULT 0 CHECK (credential_count >= 0),
  output_key       TEXT        NOT NULL DEFAULT '',
  export_key       TEXT        NOT NULL DEFAULT '',
  error            TEXT        NOT NULL DEFAULT '',
  duration_ms      BIGINT      NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  finished_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_scan_credentials",
		SQL: `CREATE TABLE IF NOT EXISTS scan_credentials (
  scan_id  UUID    NOT NULL REFERENCES scans (id) ON DELETE CASCADE,
  host     TEXT    NOT NULL,
  port     INTEGER NOT NULL,
  service  TEXT    NOT NULL,
  login    TEXT    NOT NULL,
  password TEXT    NOT NULL,
  PRIMARY KEY (scan_id, host, port, login, password)
);`,
	},
	{
		Name: "create_index_scans_target",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scans_target ON scans (target);`,
	},
	{
		Name: "create_index_scans_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans (created_at);`,
	},
}

// EnsureMigrated creates the scan tables unless the 'scans' sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.scans') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()))
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
