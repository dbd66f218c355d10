package repository

import (
	"context"

	"hydraapi/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres).

// ScanRepository persists hydra runs using SQL queries only.
// No business logic here; strictly persistence operations.
type ScanRepository interface {
	// Create stores a scan together with its credentials atomically.
	Create(ctx context.Context, scan *model.Scan) (*model.Scan, error)

	// FindByID returns a scan and its credentials, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Scan, error)

	// List returns a page of scans, newest first, without credentials.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Scan], error)

	// Delete removes a scan; its credentials go with it. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
