package model

import "time"

// Scan is one recorded hydra run against a single target and service.
// Archived stdout and export live in object storage under OutputKey/ExportKey.
type Scan struct {
	ID              string           `json:"id"`
	Target          string           `json:"target"`
	Service         string           `json:"service"`
	Port            int              `json:"port"`
	Status          ScanStatus       `json:"status"`
	CommandLine     string           `json:"command_line"`
	ExitCode        int              `json:"exit_code"`
	CredentialCount int              `json:"credential_count"`
	Credentials     []ScanCredential `json:"credentials,omitempty"`
	OutputKey       string           `json:"output_key,omitempty"`
	ExportKey       string           `json:"export_key,omitempty"`
	Error           string           `json:"error,omitempty"`
	DurationMs      int64            `json:"duration_ms"`
	CreatedAt       time.Time        `json:"created_at"`
	FinishedAt      time.Time        `json:"finished_at"`
}

// ScanCredential is a login/password pair found during a scan.
type ScanCredential struct {
	ScanID   string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password string `json:"password"`
}
