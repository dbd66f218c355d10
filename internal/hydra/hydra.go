// Package hydra drives the external THC-Hydra binary: it builds the command
// line for a request, runs hydra as a subprocess and turns its output and
// export file into credentials.
package hydra

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is where distribution packages install hydra.
const DefaultBinary = "/usr/bin/hydra"

// Result is the outcome of a successful hydra run. Args is the exact argument
// list and may hold a literal password; CommandLine is the redacted form.
type Result struct {
	Target      string        `json:"target"`
	Service     string        `json:"service"`
	Port        int           `json:"port"`
	Args        []string      `json:"-"`
	CommandLine string        `json:"command_line"`
	Credentials Credentials   `json:"credentials"`
	Warnings    []string      `json:"warnings,omitempty"`
	Stdout      string        `json:"-"`
	Stderr      string        `json:"-"`
	Export      []byte        `json:"-"`
	ExportType  string        `json:"export_type"`
	ExitCode    int           `json:"exit_code"`
	Duration    time.Duration `json:"duration"`
}

// Client runs hydra against a single target address.
type Client struct {
	target  netip.Addr
	binary  string
	runner  Runner
	logger  *zap.Logger
	workDir string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the hydra executable. A bare name is looked up in PATH.
func WithBinary(path string) Option { return func(c *Client) { c.binary = path } }

// WithRunner replaces the process runner, typically with a fake in tests.
func WithRunner(r Runner) Option { return func(c *Client) { c.runner = r } }

// WithLogger sets the logger for run progress and hydra warnings. The default discards everything.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithWorkDir runs hydra in dir so hydra.restore survives between runs.
// Without it every run gets a temporary directory that is removed afterwards.
func WithWorkDir(dir string) Option { return func(c *Client) { c.workDir = dir } }

// WithTimeout bounds a single run. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// New validates target and the hydra binary and returns a Client.
func New(target string, opts ...Option) (*Client, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(target))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	c := &Client{
		target: addr,
		binary: DefaultBinary,
		runner: ExecRunner{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	bin, err := resolveBinary(c.binary)
	if err != nil {
		return nil, err
	}
	c.binary = bin
	return c, nil
}

func resolveBinary(path string) (string, error) {
	if !strings.ContainsRune(path, filepath.Separator) {
		found, err := lookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s not in PATH, install it (e.g. apt install hydra) or set the binary path", ErrBinaryNotFound, path)
		}
		path = found
	}

	fi, err := statFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s, install it (e.g. apt install hydra) or set the binary path", ErrBinaryNotFound, path)
	}
	if fi.IsDir() || fi.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s", ErrBinaryNotExecutable, path)
	}
	return path, nil
}

// Target returns the address this client attacks.
func (c *Client) Target() netip.Addr { return c.target }

// Binary returns the resolved hydra path.
func (c *Client) Binary() string { return c.binary }

// Bruteforce runs hydra once for req and blocks until it exits.
func (c *Client) Bruteforce(ctx context.Context, req Request) (*Result, error) {
	req, err := normalize(req, c.logger)
	if err != nil {
		return nil, err
	}

	dir := c.workDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "hydra-run-*")
		if err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
		defer os.RemoveAll(dir)
	}

	export, err := os.CreateTemp(dir, "hydra-export-*."+ExportExtension(req.ExportType))
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	exportPath := export.Name()
	_ = export.Close()
	defer os.Remove(exportPath)

	cmd := Command{
		Binary: c.binary,
		Args:   buildArgs(c.target, req, exportPath),
		Dir:    dir,
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("running thc-hydra", zap.String("command", cmd.String()))
	exe, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	warnings := c.scanStderr(exe.Stderr)

	if exe.Killed {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return nil, fmt.Errorf("hydra killed after %s: %w", exe.Duration.Round(time.Millisecond), cause)
	}
	if exe.ExitCode != 0 {
		return nil, exitError(exe)
	}

	creds, err := ParseOutput(strings.NewReader(exe.Stdout))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(exportPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	exported, err := ParseExport(data, req.ExportType)
	if err != nil {
		return nil, err
	}
	creds = creds.merge(exported)

	c.logger.Info("thc-hydra finished",
		zap.String("target", c.target.String()),
		zap.String("service", req.Service),
		zap.Int("port", req.Port),
		zap.Int("credentials", creds.Len()),
		zap.Duration("duration", exe.Duration))

	return &Result{
		Target:      c.target.String(),
		Service:     req.Service,
		Port:        req.Port,
		Args:        cmd.Args,
		CommandLine: cmd.String(),
		Credentials: creds,
		Warnings:    warnings,
		Stdout:      exe.Stdout,
		Stderr:      exe.Stderr,
		Export:      data,
		ExportType:  req.ExportType,
		ExitCode:    exe.ExitCode,
		Duration:    exe.Duration,
	}, nil
}

func (c *Client) scanStderr(stderr string) []string {
	var warnings []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "[WARNING]"):
			c.logger.Warn(line)
			warnings = append(warnings, line)
		case strings.Contains(line, "only using the -p or -P option"):
			c.logger.Warn("service does not need a user wordlist, drop the login source and retry", zap.String("hydra", line))
		}
	}
	return warnings
}

func exitError(exe *Execution) error {
	for _, line := range strings.Split(exe.Stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[ERROR]") {
			return &ExitError{Code: exe.ExitCode, Message: line, Stderr: exe.Stderr}
		}
	}
	return &ExitError{Code: exe.ExitCode, Stderr: exe.Stderr}
}

// ExportExtension returns the file extension used for an export type.
func ExportExtension(exportType string) string {
	if exportType == ExportText {
		return "txt"
	}
	return "json"
}
