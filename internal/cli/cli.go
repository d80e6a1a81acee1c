// Package cli wires the grocery commands: the interactive shell, one-shot
// list edits and the development backend.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idilsaglam/grocery/internal/config"
	"github.com/idilsaglam/grocery/internal/logging"
	"github.com/idilsaglam/grocery/internal/remote"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/ui"
)

// Exit codes, shared by every command.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitUsage = 2
)

// exitError carries the exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, a...)}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFail
}

// env is the state shared by all commands of one invocation.
type env struct {
	v         *viper.Viper
	configDir string
	cfg       config.Config
}

// New builds the root command. Run with no subcommand it opens the UI.
func New() *cobra.Command {
	e := &env{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "grocery",
		Short:         "A grocery list kept in step with a REST backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, e)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: ExitUsage, err: err}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&e.configDir, "config", "", "Directory holding .grocery.yaml.")
	f.String("endpoint", remote.DefaultEndpoint, "REST collection endpoint.")
	f.Duration("load-delay", 0, "Wait this long before the initial fetch.")
	f.String("id-policy", store.IDPolicyMax.String(), "How new ids are chosen: max or monotonic.")
	f.String("log-level", "info", "debug, info, warn or error.")
	f.String("log-file", "", "Write logs to this file.")
	f.Bool("no-color", false, "Disable colored output.")
	f.String("theme", ui.ThemeClassic, "Output theme: classic or mono.")
	f.Duration("timeout", 0, "Per-request timeout; 0 waits as long as the backend takes.")
	bindFlags(e.v, f, map[string]string{
		config.KeyEndpoint:  "endpoint",
		config.KeyLoadDelay: "load-delay",
		config.KeyIDPolicy:  "id-policy",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFile:   "log-file",
		config.KeyNoColor:   "no-color",
		config.KeyTheme:     "theme",
		config.KeyTimeout:   "timeout",
	})

	AddCommands(cmd, e)
	return cmd
}

// AddCommands registers every subcommand on topLevel.
func AddCommands(topLevel *cobra.Command, e *env) {
	addUI(topLevel, e)
	addLs(topLevel, e)
	addAdd(topLevel, e)
	addCheck(topLevel, e)
	addRm(topLevel, e)
	addServe(topLevel, e)
	addVersion(topLevel)
}

// Execute runs cmd, prints a failure line to its error stream and returns
// the exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err != nil {
		ui.Fail(cmd.ErrOrStderr(), err.Error())
		if ExitCode(err) == ExitUsage {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Current().Muted.Render("Run `grocery --help` for usage."))
		}
	}
	return ExitCode(err)
}

func (e *env) load() error {
	cfg, err := config.Load(e.v, e.configDir)
	if err != nil {
		return usagef("%v", err)
	}
	e.cfg = cfg
	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.DisableColor()
	}
	return nil
}

// logger builds the logger for this invocation. Without a log file it
// writes to fallback; a nil fallback discards. The close func is never nil.
func (e *env) logger(fallback io.Writer) (*slog.Logger, func() error, error) {
	log, closeLog, err := logging.Setup(e.cfg.LogLevel, e.cfg.LogFile, fallback)
	if err != nil {
		return nil, nil, usagef("%v", err)
	}
	return log, closeLog, nil
}

// store builds a store talking to the configured endpoint.
func (e *env) store(log *slog.Logger) (*store.Store, error) {
	client, err := remote.New(e.cfg.Endpoint,
		remote.WithLogger(log),
		remote.WithTimeout(e.cfg.Timeout),
	)
	if err != nil {
		return nil, usagef("%v", err)
	}
	return store.New(client,
		store.WithLoadDelay(e.cfg.LoadDelay),
		store.WithIDPolicy(e.cfg.IDPolicy),
		store.WithLogger(log),
	), nil
}

// bindFlags lets viper read each named flag under its config key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		// only fails when name is not a registered flag
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
