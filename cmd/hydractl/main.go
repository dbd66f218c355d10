// Command hydractl runs a single THC-Hydra attack from the shell and prints
// the discovered credentials as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hydraapi/internal/hydra"
	"hydraapi/internal/logging"
)

type cli struct {
	verbose bool
	logger  *zap.Logger

	target    string
	hydraPath string
	workDir   string
	timeout   time.Duration
	req       hydra.Request
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "hydractl",
		Short: "Drive THC-Hydra against a single host",
		Long: `hydractl builds a hydra command line from flags, runs hydra once and
prints the credentials it found, merged from stdout and hydra's export file.

Only use it against systems you are authorised to test.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "info"
			if c.verbose {
				level = "debug"
			}
			// stdout carries the JSON result
			c.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, time.Local)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(c.runCmd(), c.servicesCmd())
	return root
}

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run hydra once and print the result",
		Example: `  hydractl run --target 192.168.41.3 --service ssh --port 22 \
    --login-file users.txt --password-file rockyou.txt --threads 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.target, "target", "", "IPv4 or IPv6 address to attack (required)")
	f.StringVar(&c.req.Service, "service", "", "hydra service module, e.g. ssh, ftp, rdp (required)")
	f.IntVar(&c.req.Port, "port", 0, "target port (required)")
	f.StringVar(&c.req.Login, "login", "", "single login (-l)")
	f.StringVar(&c.req.LoginFile, "login-file", "", "login wordlist (-L)")
	f.StringVar(&c.req.Password, "password", "", "single password (-p)")
	f.StringVar(&c.req.PasswordFile, "password-file", "", "password wordlist (-P)")
	f.StringVar(&c.req.ComboFile, "combo-file", "", "login:password wordlist (-C)")
	f.IntVar(&c.req.Threads, "threads", hydra.DefaultThreads, "parallel tasks, reduced to 64")
	f.StringVar(&c.req.ExportType, "export", hydra.ExportJSON, "export format: text, json or jsonv1")
	f.IntVar(&c.req.WaitTime, "wait", hydra.DefaultWaitTime, "seconds to wait for a response (-w)")
	f.BoolVar(&c.req.UseRestoreFile, "use-restore", false, "resume from hydra.restore instead of ignoring it")
	f.StringVar(&c.hydraPath, "hydra-path", hydra.DefaultBinary, "hydra executable, bare names are looked up in PATH")
	f.StringVar(&c.workDir, "work-dir", "", "directory hydra runs in; keeps hydra.restore between runs")
	f.DurationVar(&c.timeout, "timeout", 0, "kill hydra after this long (0 = no limit)")

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("port")
	cmd.MarkFlagsMutuallyExclusive("login", "login-file")
	cmd.MarkFlagsMutuallyExclusive("password", "password-file")
	cmd.MarkFlagsMutuallyExclusive("combo-file", "login")
	cmd.MarkFlagsMutuallyExclusive("combo-file", "login-file")
	cmd.MarkFlagsMutuallyExclusive("combo-file", "password")
	cmd.MarkFlagsMutuallyExclusive("combo-file", "password-file")
	return cmd
}

func (c *cli) run(ctx context.Context, out io.Writer) error {
	client, err := hydra.New(c.target,
		hydra.WithBinary(c.hydraPath),
		hydra.WithWorkDir(c.workDir),
		hydra.WithTimeout(c.timeout),
		hydra.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := client.Bruteforce(ctx, c.req)
	if err != nil {
		return err
	}
	return writeJSON(out, res)
}

func (c *cli) servicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the hydra services hydractl accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), map[string][]string{
				"supported": hydra.SupportedServices(),
				"special":   hydra.SpecialServices(),
				"loginless": hydra.LoginlessServices(),
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
