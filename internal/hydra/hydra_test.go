package hydra_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hydraapi/internal/hydra"
	"hydraapi/internal/hydra/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeBinary creates an executable placeholder so New accepts it.
func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hydra")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func wordlist(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// exportPathOf returns the value following -o in args.
func exportPathOf(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-o" {
			return args[i+1]
		}
	}
	return ""
}

func TestNew(t *testing.T) {
	bin := fakeBinary(t)

	t.Run("ipv4 and ipv6 targets", func(t *testing.T) {
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin))
		require.NoError(t, err)
		assert.Equal(t, "192.168.41.3", c.Target().String())
		assert.Equal(t, bin, c.Binary())

		_, err = hydra.New("::1", hydra.WithBinary(bin))
		assert.NoError(t, err)
	})

	t.Run("invalid target", func(t *testing.T) {
		_, err := hydra.New("example.com", hydra.WithBinary(bin))
		assert.ErrorIs(t, err, hydra.ErrInvalidTarget)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := hydra.New("10.0.0.1", hydra.WithBinary(filepath.Join(t.TempDir(), "nope")))
		assert.ErrorIs(t, err, hydra.ErrBinaryNotFound)
	})

	t.Run("binary not in PATH", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		_, err := hydra.New("10.0.0.1", hydra.WithBinary("hydra-does-not-exist"))
		assert.ErrorIs(t, err, hydra.ErrBinaryNotFound)
	})

	t.Run("not executable", func(t *testing.T) {
		path := wordlist(t, "hydra", "not a program")
		_, err := hydra.New("10.0.0.1", hydra.WithBinary(path))
		assert.ErrorIs(t, err, hydra.ErrBinaryNotExecutable)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := hydra.New("10.0.0.1", hydra.WithBinary(t.TempDir()))
		assert.ErrorIs(t, err, hydra.ErrBinaryNotExecutable)
	})
}

func TestClient_Bruteforce(t *testing.T) {
	ctx := context.Background()
	bin := fakeBinary(t)
	users := wordlist(t, "users.txt", "root\nubuntu\n")
	pass := wordlist(t, "pass.txt", "toor\nubuntu\n")

	req := hydra.Request{Service: "SSH", Port: 22, LoginFile: users, PasswordFile: pass, Threads: 64}

	t.Run("stdout and json export are merged", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		core, logs := observer.New(zap.InfoLevel)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner), hydra.WithLogger(zap.New(core)))
		require.NoError(t, err)

		var exportPath, workDir string
		runner.On("Run", mock.Anything, mock.MatchedBy(func(cmd hydra.Command) bool {
			return cmd.Binary == bin && cmd.Args[0] == "ssh://192.168.41.3:22"
		})).Return(func(_ context.Context, cmd hydra.Command) *hydra.Execution {
			exportPath, workDir = exportPathOf(cmd.Args), cmd.Dir
			_ = os.WriteFile(exportPath, []byte(`{"results":[
				{"port":22,"service":"ssh","host":"192.168.41.3","login":"root","password":"toor"},
				{"port":22,"service":"ssh","host":"192.168.41.3","login":"ubuntu","password":"ubuntu"}]}`), 0o644)
			return &hydra.Execution{
				Stdout:   "[22][ssh] host: 192.168.41.3   login: root   password: toor\n",
				Stderr:   "[WARNING] Many SSH configurations limit the number of parallel tasks\n",
				Duration: time.Second,
			}
		}, nil).Once()

		res, err := c.Bruteforce(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"root": "toor", "ubuntu": "ubuntu"}, res.Credentials.Map())
		assert.Len(t, res.Credentials, 2)
		assert.Equal(t, "ssh", res.Service)
		assert.Equal(t, hydra.ExportJSON, res.ExportType)
		assert.Equal(t, []string{"[WARNING] Many SSH configurations limit the number of parallel tasks"}, res.Warnings)
		assert.Contains(t, res.Args, "-I")
		assert.Equal(t, 1, logs.FilterMessage("[WARNING] Many SSH configurations limit the number of parallel tasks").Len())

		// per-run temp files are cleaned up
		assert.NoFileExists(t, exportPath)
		assert.NoDirExists(t, workDir)
		runner.AssertExpectations(t)
	})

	t.Run("no credentials found", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).
			Return(&hydra.Execution{Stdout: "0 of 1 target completed, 0 valid password found\n"}, nil).Once()

		res, err := c.Bruteforce(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, res.Credentials)
		assert.Empty(t, res.Credentials.Map())
	})

	t.Run("configured work dir is kept", func(t *testing.T) {
		dir := t.TempDir()
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner), hydra.WithWorkDir(dir))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.MatchedBy(func(cmd hydra.Command) bool {
			return cmd.Dir == dir && filepath.Dir(exportPathOf(cmd.Args)) == dir
		})).Return(&hydra.Execution{}, nil).Once()

		_, err = c.Bruteforce(ctx, req)
		require.NoError(t, err)
		assert.DirExists(t, dir)
		runner.AssertExpectations(t)
	})

	t.Run("hydra error line", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).Return(&hydra.Execution{
			ExitCode: 255,
			Stderr:   "[WARNING] something\n[ERROR] could not connect to ssh://192.168.41.3:22 - Connection refused\n",
		}, nil).Once()

		res, err := c.Bruteforce(ctx, req)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, hydra.ErrHydra)

		var exitErr *hydra.ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 255, exitErr.Code)
		assert.Equal(t, "[ERROR] could not connect to ssh://192.168.41.3:22 - Connection refused", exitErr.Message)
	})

	t.Run("non-zero exit without error line", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).Return(&hydra.Execution{
			ExitCode: 1,
			Stdout:   "[22][ssh] host: 192.168.41.3   login: root   password: toor\n",
			Stderr:   "segmentation fault\n",
		}, nil).Once()

		res, err := c.Bruteforce(ctx, req)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, hydra.ErrUnknownHydra)
		assert.NotErrorIs(t, err, hydra.ErrHydra)
	})

	t.Run("runner cannot start hydra", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).
			Return(nil, hydra.ErrBinaryNotExecutable).Once()

		_, err = c.Bruteforce(ctx, req)
		assert.ErrorIs(t, err, hydra.ErrBinaryNotExecutable)
	})

	t.Run("malformed export", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).Return(func(_ context.Context, cmd hydra.Command) *hydra.Execution {
			_ = os.WriteFile(exportPathOf(cmd.Args), []byte("{not json"), 0o644)
			return &hydra.Execution{}
		}, nil).Once()

		_, err = c.Bruteforce(ctx, req)
		assert.ErrorIs(t, err, hydra.ErrDecode)
	})

	t.Run("killed by timeout", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner), hydra.WithTimeout(time.Millisecond))
		require.NoError(t, err)

		runner.On("Run", mock.Anything, mock.Anything).Return(func(ctx context.Context, _ hydra.Command) *hydra.Execution {
			<-ctx.Done()
			return &hydra.Execution{Killed: true}
		}, nil).Once()

		_, err = c.Bruteforce(ctx, req)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("validation happens before running", func(t *testing.T) {
		runner := new(mocks.MockRunner)
		c, err := hydra.New("192.168.41.3", hydra.WithBinary(bin), hydra.WithRunner(runner))
		require.NoError(t, err)

		_, err = c.Bruteforce(ctx, hydra.Request{Service: "ssh", Port: 22, Login: "root", PasswordFile: "/does/not/exist"})
		assert.ErrorIs(t, err, hydra.ErrWordlistNotFound)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}

func TestClient_BruteforceRedactsLiteralPassword(t *testing.T) {
	runner := new(mocks.MockRunner)
	core, logs := observer.New(zap.InfoLevel)
	c, err := hydra.New("192.168.41.3", hydra.WithBinary(fakeBinary(t)), hydra.WithRunner(runner), hydra.WithLogger(zap.New(core)))
	require.NoError(t, err)

	runner.On("Run", mock.Anything, mock.MatchedBy(func(cmd hydra.Command) bool {
		for i := 0; i < len(cmd.Args)-1; i++ {
			if cmd.Args[i] == "-p" {
				return cmd.Args[i+1] == "hunter2"
			}
		}
		return false
	})).Return(&hydra.Execution{}, nil).Once()

	res, err := c.Bruteforce(context.Background(), hydra.Request{Service: "ssh", Port: 22, Login: "root", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotContains(t, res.CommandLine, "hunter2")
	assert.Contains(t, res.CommandLine, "-p ***")

	started := logs.FilterMessage("running thc-hydra").All()
	require.Len(t, started, 1)
	assert.NotContains(t, started[0].ContextMap()["command"], "hunter2")
	runner.AssertExpectations(t)
}
