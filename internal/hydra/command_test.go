package hydra

import (
	"errors"
	"io/fs"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFileInfo struct {
	name string
	dir  bool
	mode fs.FileMode
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

// fakeFS makes statFile report the given paths as regular files.
func fakeFS(t *testing.T, files ...string) {
	t.Helper()
	orig := statFile
	t.Cleanup(func() { statFile = orig })

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f] = true
	}
	statFile = func(name string) (os.FileInfo, error) {
		if known[name] {
			return fakeFileInfo{name: name, mode: 0o644}, nil
		}
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
}

func TestBuildArgs(t *testing.T) {
	fakeFS(t, "/wl/users.txt", "/wl/pass.txt", "/wl/combo.txt")
	v4 := netip.MustParseAddr("192.168.41.3")
	v6 := netip.MustParseAddr("fe80::1")

	tests := []struct {
		name   string
		target netip.Addr
		req    Request
		out    string
		want   []string
	}{
		{
			name:   "user and password wordlists with defaults",
			target: v4,
			req:    Request{Service: "ssh", Port: 22, LoginFile: "/wl/users.txt", PasswordFile: "/wl/pass.txt"},
			out:    "/tmp/out.json",
			want: []string{
				"ssh://192.168.41.3:22", "-w", "2",
				"-L", "/wl/users.txt", "-P", "/wl/pass.txt",
				"-t", "4", "-o", "/tmp/out.json", "-b", "json", "-I",
			},
		},
		{
			name:   "literal login and password, restore file honoured",
			target: v4,
			req: Request{
				Service: "FTP", Port: 2121, Login: "admin", Password: "admin",
				Threads: 16, ExportType: "TEXT", UseRestoreFile: true, WaitTime: 5,
			},
			out: "/tmp/out.txt",
			want: []string{
				"ftp://192.168.41.3:2121", "-w", "5",
				"-l", "admin", "-p", "admin",
				"-t", "16", "-o", "/tmp/out.txt", "-b", "text",
			},
		},
		{
			name:   "combo wordlist replaces login and password",
			target: v4,
			req:    Request{Service: "mysql", Port: 3306, ComboFile: "/wl/combo.txt", Login: "ignored", ExportType: "jsonv1"},
			out:    "/tmp/out.json",
			want: []string{
				"mysql://192.168.41.3:3306", "-w", "2",
				"-C", "/wl/combo.txt",
				"-t", "4", "-o", "/tmp/out.json", "-b", "jsonv1", "-I",
			},
		},
		{
			name:   "login-less service drops login source",
			target: v4,
			req:    Request{Service: "redis", Port: 6379, LoginFile: "/wl/users.txt", PasswordFile: "/wl/pass.txt"},
			out:    "/tmp/out.json",
			want: []string{
				"redis://192.168.41.3:6379", "-w", "2",
				"-P", "/wl/pass.txt",
				"-t", "4", "-o", "/tmp/out.json", "-b", "json", "-I",
			},
		},
		{
			name:   "ipv6 target is bracketed and threads are clamped",
			target: v6,
			req:    Request{Service: "ssh", Port: 22, Login: "root", PasswordFile: "/wl/pass.txt", Threads: 200},
			out:    "",
			want: []string{
				"ssh://[fe80::1]:22", "-w", "2",
				"-l", "root", "-P", "/wl/pass.txt",
				"-t", "64", "-I",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildArgs(tt.target, tt.req, tt.out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildArgs_Validation(t *testing.T) {
	fakeFS(t, "/wl/users.txt", "/wl/pass.txt")
	target := netip.MustParseAddr("10.0.0.1")

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"unknown service", Request{Service: "gopher", Port: 70, Login: "a", Password: "b"}, ErrUnknownService},
		{"special service", Request{Service: "http-post-form", Port: 80, Login: "a", Password: "b"}, ErrUnsupportedService},
		{"port zero", Request{Service: "ssh", Port: 0, Login: "a", Password: "b"}, ErrInvalidPort},
		{"port too high", Request{Service: "ssh", Port: 70000, Login: "a", Password: "b"}, ErrInvalidPort},
		{"negative threads", Request{Service: "ssh", Port: 22, Login: "a", Password: "b", Threads: -1}, ErrInvalidThreads},
		{"bad export type", Request{Service: "ssh", Port: 22, Login: "a", Password: "b", ExportType: "xml"}, ErrInvalidExportType},
		{"negative wait", Request{Service: "ssh", Port: 22, Login: "a", Password: "b", WaitTime: -3}, ErrInvalidWaitTime},
		{"no login", Request{Service: "ssh", Port: 22, PasswordFile: "/wl/pass.txt"}, ErrNoWordlist},
		{"no password", Request{Service: "ssh", Port: 22, LoginFile: "/wl/users.txt"}, ErrNoWordlist},
		{"missing login file", Request{Service: "ssh", Port: 22, LoginFile: "/wl/nope.txt", Password: "x"}, ErrWordlistNotFound},
		{"missing password file", Request{Service: "ssh", Port: 22, Login: "root", PasswordFile: "/wl/nope.txt"}, ErrWordlistNotFound},
		{"missing combo file", Request{Service: "ssh", Port: 22, ComboFile: "/wl/nope.txt"}, ErrWordlistNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuildArgs(target, tt.req, "/tmp/out.json")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
			assert.Nil(t, args)
		})
	}
}

func TestNormalize_LogsClampAndDroppedLogin(t *testing.T) {
	fakeFS(t, "/wl/pass.txt")
	core, logs := observer.New(zap.InfoLevel)

	got, err := normalize(Request{
		Service: "VNC", Port: 5900, Login: "nobody", PasswordFile: "/wl/pass.txt", Threads: 65,
	}, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "vnc", got.Service)
	assert.Equal(t, MaxThreads, got.Threads)
	assert.Empty(t, got.Login)
	assert.Equal(t, 1, logs.FilterMessage("thread count too high, reducing").Len())
	assert.Equal(t, 1, logs.FilterMessage("service does not take a username, dropping login source").Len())
}

func TestRequireFile_Directory(t *testing.T) {
	orig := statFile
	t.Cleanup(func() { statFile = orig })
	statFile = func(name string) (os.FileInfo, error) {
		return fakeFileInfo{name: name, dir: true, mode: fs.ModeDir | 0o755}, nil
	}

	err := requireFile("/wl")
	assert.True(t, errors.Is(err, ErrWordlistNotFound))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "/usr/bin/hydra", Command{Binary: "/usr/bin/hydra"}.String())
	assert.Equal(t, "/usr/bin/hydra ssh://10.0.0.1:22 -I",
		Command{Binary: "/usr/bin/hydra", Args: []string{"ssh://10.0.0.1:22", "-I"}}.String())
}

func TestCommandString_RedactsPassword(t *testing.T) {
	cmd := Command{
		Binary: "/usr/bin/hydra",
		Args:   []string{"ssh://10.0.0.1:22", "-w", "2", "-l", "root", "-p", "s3cret", "-t", "4", "-I"},
	}
	got := cmd.String()
	assert.Equal(t, "/usr/bin/hydra ssh://10.0.0.1:22 -w 2 -l root -p *** -t 4 -I", got)
	assert.NotContains(t, got, "s3cret")
	assert.Equal(t, "s3cret", cmd.Args[7], "args passed to hydra are untouched")
}

func TestServiceLists(t *testing.T) {
	assert.Contains(t, SupportedServices(), "ssh")
	assert.Contains(t, SpecialServices(), "http-post-form")
	assert.False(t, NeedsLogin("Redis"))
	assert.True(t, NeedsLogin("ssh"))

	// callers get copies
	s := SupportedServices()
	s[0] = "mutated"
	assert.NotEqual(t, "mutated", SupportedServices()[0])
}
