package hydra

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultThreads  = 4
	MaxThreads      = 64
	DefaultWaitTime = 2
)

// Export formats understood by hydra's -b flag.
const (
	ExportText   = "text"
	ExportJSON   = "json"
	ExportJSONv1 = "jsonv1"
)

// statFile is replaced in tests to fake wordlist existence.
var statFile = os.Stat

// Request holds the call-time parameters of a single hydra run.
//
// Login and Password are literal values (-l / -p); LoginFile and
// PasswordFile are wordlists (-L / -P) and take precedence when both are set.
// ComboFile is a "login:password" wordlist (-C) and replaces all four.
type Request struct {
	Service      string `json:"service"`
	Port         int    `json:"port"`
	Login        string `json:"login,omitempty"`
	LoginFile    string `json:"login_file,omitempty"`
	Password     string `json:"password,omitempty"`
	PasswordFile string `json:"password_file,omitempty"`
	ComboFile    string `json:"combo_file,omitempty"`
	Threads      int    `json:"threads,omitempty"`
	ExportType   string `json:"export_type,omitempty"`
	// UseRestoreFile lets hydra resume from ./hydra.restore; by default the
	// restore file is ignored (-I).
	UseRestoreFile bool `json:"use_restore_file,omitempty"`
	// WaitTime is hydra's -w response timeout in seconds.
	WaitTime int `json:"wait_time,omitempty"`
}

// Combo reports whether the request uses a login:password wordlist.
func (r Request) Combo() bool { return r.ComboFile != "" }

// normalize validates r and fills defaults. The returned request is the one
// the command line is built from.
func normalize(r Request, logger *zap.Logger) (Request, error) {
	r.Service = strings.ToLower(strings.TrimSpace(r.Service))
	if err := checkService(r.Service); err != nil {
		return r, err
	}

	if r.Port < 1 || r.Port > 65535 {
		return r, fmt.Errorf("%w: %d", ErrInvalidPort, r.Port)
	}

	switch {
	case r.Threads < 0:
		return r, fmt.Errorf("%w: %d", ErrInvalidThreads, r.Threads)
	case r.Threads == 0:
		r.Threads = DefaultThreads
	case r.Threads > MaxThreads:
		logger.Info("thread count too high, reducing",
			zap.Int("requested", r.Threads), zap.Int("threads", MaxThreads))
		r.Threads = MaxThreads
	}

	r.ExportType = strings.ToLower(r.ExportType)
	switch r.ExportType {
	case "":
		r.ExportType = ExportJSON
	case ExportText, ExportJSON, ExportJSONv1:
	default:
		return r, fmt.Errorf("%w: %q", ErrInvalidExportType, r.ExportType)
	}

	switch {
	case r.WaitTime < 0:
		return r, fmt.Errorf("%w: %d", ErrInvalidWaitTime, r.WaitTime)
	case r.WaitTime == 0:
		r.WaitTime = DefaultWaitTime
	}

	if r.Combo() {
		if err := requireFile(r.ComboFile); err != nil {
			return r, err
		}
		r.Login, r.LoginFile, r.Password, r.PasswordFile = "", "", "", ""
		return r, nil
	}

	if !NeedsLogin(r.Service) {
		if r.Login != "" || r.LoginFile != "" {
			logger.Info("service does not take a username, dropping login source",
				zap.String("service", r.Service))
		}
		r.Login, r.LoginFile = "", ""
	} else {
		if r.LoginFile == "" && r.Login == "" {
			return r, fmt.Errorf("%w: login or login file is required for %s", ErrNoWordlist, r.Service)
		}
		if r.LoginFile != "" {
			if err := requireFile(r.LoginFile); err != nil {
				return r, err
			}
			r.Login = ""
		}
	}

	if r.PasswordFile == "" && r.Password == "" {
		return r, fmt.Errorf("%w: password or password file is required", ErrNoWordlist)
	}
	if r.PasswordFile != "" {
		if err := requireFile(r.PasswordFile); err != nil {
			return r, err
		}
		r.Password = ""
	}

	return r, nil
}

func requireFile(path string) error {
	fi, err := statFile(path)
	if err != nil || fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrWordlistNotFound, path)
	}
	return nil
}
