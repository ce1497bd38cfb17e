// Package cli implements the realdesk command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/config"
	"github.com/mesh-intelligence/realdesk/internal/logging"
	"github.com/mesh-intelligence/realdesk/pkg/realdesk"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitSysError
}

// rootFlags holds global flag values shared by every subcommand.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// NewRootCmd creates the top-level "realdesk" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "realdesk",
		Short: "Real-estate back office: properties, leads, appointments and workflows",
		Long: "realdesk manages properties, sales leads, appointments and workflow automations.\n" +
			"Every change is recorded in an activity log. Run \"realdesk serve\" for the REST API.",
		Version:       realdesk.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&f.backend, "backend", "", "store backend: memory, sqlite or postgres")
	root.PersistentFlags().BoolVar(&f.jsonMode, "json", false, "output compact JSON")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newServeCmd(f),
		newListCmd(f),
		newGetCmd(f),
		newCreateCmd(f),
		newUpdateCmd(f),
		newDeleteCmd(f),
		newActivitiesCmd(f),
		newExportCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func (f *rootFlags) load() (config.Config, error) {
	cfg, err := config.Load(config.Overrides{
		ConfigDir: f.configDir,
		DataDir:   f.dataDir,
		Backend:   f.backend,
	})
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger returns a console logger on stderr: debug with --verbose,
// otherwise warnings only.
func (f *rootFlags) logger() *zap.Logger {
	level := "warn"
	if f.verbose {
		level = "debug"
	}
	log, err := logging.New(level, logging.FormatConsole, "realdesk")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openStore loads the configuration and opens the store it names. The
// caller closes the store.
func (f *rootFlags) openStore(ctx context.Context) (types.Store, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	s, err := realdesk.Open(ctx, cfg.Store, realdesk.WithLogger(f.logger()))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// withStore runs fn against an open store and closes it afterwards.
func (f *rootFlags) withStore(cmd *cobra.Command, fn func(ctx context.Context, s types.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := f.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// printJSON writes v as indented JSON, or compact with --json.
func (f *rootFlags) printJSON(w io.Writer, v any) error {
	enc := newEncoder(w, !f.jsonMode)
	return enc.Encode(v)
}
