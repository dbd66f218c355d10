package hydra

import (
	"errors"
	"fmt"
)

var (
	ErrBinaryNotFound      = errors.New("hydra binary not found")
	ErrBinaryNotExecutable = errors.New("hydra binary is not executable")
	ErrInvalidTarget       = errors.New("target must be an IPv4 or IPv6 address")
	ErrUnknownService      = errors.New("unknown service")
	ErrUnsupportedService  = errors.New("unsupported service")
	ErrInvalidPort         = errors.New("port must be between 1 and 65535")
	ErrInvalidThreads      = errors.New("threads must not be negative")
	ErrInvalidExportType   = errors.New("export type must be one of text, json, jsonv1")
	ErrInvalidWaitTime     = errors.New("wait time must not be negative")
	ErrNoWordlist          = errors.New("no wordlist given")
	ErrWordlistNotFound    = errors.New("wordlist file does not exist")

	// ErrHydra is wrapped by every ExitError that carries an [ERROR] line from hydra.
	ErrHydra = errors.New("hydra error")
	// ErrUnknownHydra is returned when hydra exits non-zero without reporting why.
	ErrUnknownHydra = errors.New("hydra exited with an unknown error")
	ErrDecode       = errors.New("cannot decode hydra export")
)

// ExitError reports a non-zero hydra exit.
type ExitError struct {
	Code    int
	Message string
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hydra exited with code %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("hydra exited with code %d", e.Code)
}

// Unwrap lets callers match with errors.Is(err, ErrHydra) or ErrUnknownHydra.
func (e *ExitError) Unwrap() error {
	if e.Message != "" {
		return ErrHydra
	}
	return ErrUnknownHydra
}

// IsValidation reports whether err was caused by bad request parameters
// rather than by hydra or the environment.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidTarget,
		ErrUnknownService,
		ErrUnsupportedService,
		ErrInvalidPort,
		ErrInvalidThreads,
		ErrInvalidExportType,
		ErrInvalidWaitTime,
		ErrNoWordlist,
		ErrWordlistNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
