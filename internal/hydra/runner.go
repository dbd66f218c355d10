package hydra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Runner starts a process and waits for it to exit.
//
// A non-zero exit status is reported through Execution.ExitCode, not as an
// error; errors are reserved for processes that could not be started.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Execution, error)
}

// Execution is what a Runner observed about a finished process.
type Execution struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	// Killed is set when the context ended the process.
	Killed bool
}

// waitDelay bounds how long Run waits for output pipes held open by
// processes hydra forked once hydra itself has exited or been killed.
const waitDelay = 2 * time.Second

// ExecRunner runs commands on the host with os/exec.
//
// Hydra runs in its own process group; cancelling the context kills the
// whole group, worker children included.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run executes cmd with stdin closed and both output streams captured.
func (ExecRunner) Run(ctx context.Context, cmd Command) (*Execution, error) {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	setProcessGroup(c)
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	res := &Execution{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}
	if ctx.Err() != nil {
		res.Killed = true
		return res, nil
	}

	// hydra exited but a forked worker kept the pipes open past waitDelay
	if errors.Is(err, exec.ErrWaitDelay) && c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrBinaryNotExecutable, err)
}
