package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"hydraapi/internal/model"
	"hydraapi/internal/repository"
)

// ScanPostgres is a PostgreSQL implementation of repository.ScanRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ScanPostgres struct {
	db *sql.DB
}

// NewScanPostgres creates a new ScanPostgres repository.
func NewScanPostgres(db *sql.DB) *ScanPostgres {
	return &ScanPostgres{db: db}
}

var _ repository.ScanRepository = (*ScanPostgres)(nil)

const scanColumns = `id, target, service, port, status, command_line, exit_code, credential_count,
		output_key, export_key, error, duration_ms, created_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(row scanner) (*model.Scan, error) {
	var s model.Scan
	var status string
	if err := row.Scan(
		&s.ID,
		&s.Target,
		&s.Service,
		&s.Port,
		&status,
		&s.CommandLine,
		&s.ExitCode,
		&s.CredentialCount,
		&s.OutputKey,
		&s.ExportKey,
		&s.Error,
		&s.DurationMs,
		&s.CreatedAt,
		&s.FinishedAt,
	); err != nil {
		return nil, err
	}
	s.Status = model.ScanStatus(status)
	return &s, nil
}

// Create inserts the scan row and its credentials in one transaction.
func (r *ScanPostgres) Create(ctx context.Context, scan *model.Scan) (*model.Scan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `
		INSERT INTO scans (` + scanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + scanColumns
	out, err := scanRow(tx.QueryRowContext(ctx, q,
		scan.ID,
		scan.Target,
		scan.Service,
		scan.Port,
		string(scan.Status),
		scan.CommandLine,
		scan.ExitCode,
		len(scan.Credentials),
		scan.OutputKey,
		scan.ExportKey,
		scan.Error,
		scan.DurationMs,
		scan.CreatedAt,
		scan.FinishedAt,
	))
	if err != nil {
		return nil, err
	}

	const qCred = `
		INSERT INTO scan_credentials (scan_id, host, port, service, login, password)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`
	for _, c := range scan.Credentials {
		if _, err := tx.ExecContext(ctx, qCred, out.ID, c.Host, c.Port, c.Service, c.Login, c.Password); err != nil {
			return nil, fmt.Errorf("insert credential: %w", err)
		}
		c.ScanID = out.ID
		out.Credentials = append(out.Credentials, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindByID fetches a scan by ID along with its credentials.
func (r *ScanPostgres) FindByID(ctx context.Context, id string) (*model.Scan, error) {
	q := `SELECT ` + scanColumns + ` FROM scans WHERE id = $1`
	s, err := scanRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qCred = `
		SELECT host, port, service, login, password
		FROM scan_credentials
		WHERE scan_id = $1
		ORDER BY login, password
	`
	rows, err := r.db.QueryContext(ctx, qCred, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c := model.ScanCredential{ScanID: id}
		if err := rows.Scan(&c.Host, &c.Port, &c.Service, &c.Login, &c.Password); err != nil {
			return nil, err
		}
		s.Credentials = append(s.Credentials, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns scans using LIMIT/OFFSET pagination and a total count.
func (r *ScanPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Scan], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + scanColumns + ` FROM scans ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Scan, 0)
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Scan]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a scan by ID. It does not return an error if the row does not exist.
func (r *ScanPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scans WHERE id = $1`, id)
	return err
}
