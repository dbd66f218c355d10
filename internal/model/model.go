package model

// Package model contains domain models/data structures.
// No business logic here; the hydra package owns run semantics.

// ScanStatus is the final state of a persisted hydra run.
type ScanStatus string

const (
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)
