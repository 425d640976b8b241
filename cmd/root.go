package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/config"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/scanner"
	"github.com/Norgate-AV/akcfg/internal/tui"
	"github.com/Norgate-AV/akcfg/internal/version"
)

// RootCmd is the root command for the akcfg CLI application.
var RootCmd = NewRootCmd()

// exit is replaced in tests.
var exit = os.Exit

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "akcfg",
		Short:        "akcfg - Configure the applications bound to the adaptive keyboard row",
		Version:      version.GetVersion(),
		Args:         cobra.NoArgs,
		RunE:         Execute,
		SilenceUsage: true, // Don't show usage on runtime errors
	}

	// Set custom version template to show full version info
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	root.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")
	root.PersistentFlags().StringP("config", "c", "", "settings file (default %APPDATA%\\akcfg\\config.toml)")
	root.PersistentFlags().Bool("elevate", false, "relaunch as administrator so elevated windows can be resolved")

	root.AddCommand(
		newListCmd(),
		newScanCmd(),
		newAddCmd(),
		newPickCmd(),
		newModeCmd(),
		newRenameCmd(),
		newSetPathCmd(),
		newRemoveCmd(),
		newIconCmd(),
		newConfigCmd(),
	)

	return root
}

// session holds state shared by a single command invocation.
type session struct {
	cfg      *Config
	settings *config.Settings
	log      logger.LoggerInterface
	platform *Platform
	catalog  *apps.Catalog
	scanner  *scanner.Scanner
	out      io.Writer
}

type sessionOptions struct {
	interactive bool // Console logging would corrupt the alternate screen
	offline     bool // Settings and logging only, no registry or desktop
}

// handleLogsFlag processes the --logs flag and exits if needed. It reports
// whether the flag was handled.
func handleLogsFlag(cfg *Config, opts logger.LoggerOptions, w io.Writer, exitFunc func(int)) bool {
	if !cfg.ShowLogs {
		return false
	}

	if err := logger.PrintLogFile(w, opts); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logger.GetLogPath(opts))
			exitFunc(1)
			return true
		}

		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		exitFunc(1)
		return true
	}

	exitFunc(0)
	return true
}

// loadSettings reads the settings file named on the command line, or the default one
func loadSettings(cfg *Config) (*config.Settings, string, error) {
	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	return settings, path, nil
}

// initializeLogger creates a logger from the [log] settings
func initializeLogger(cfg *Config, settings *config.Settings, console io.Writer) (logger.LoggerInterface, error) {
	opts := settings.LoggerOptions(cfg.Verbose)
	opts.Console = console

	log, err := logger.NewLogger(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// ensureElevatedWithDeps relaunches through UAC when the process is not elevated
func ensureElevatedWithDeps(
	log logger.LoggerInterface,
	isElevated func() bool,
	relaunchAsAdmin func() error,
	exitFunc func(int),
) error {
	log.Debug("Checking elevation status")
	if !isElevated() {
		log.Info("Relaunching as administrator")

		if err := relaunchAsAdmin(); err != nil {
			log.Error("RelaunchAsAdmin failed", slog.Any("error", err))
			return fmt.Errorf("error relaunching as admin: %w", err)
		}

		// Exit this instance, the elevated one will continue
		log.Debug("Relaunched successfully, exiting non-elevated instance")
		log.Close()
		exitFunc(0)
		return nil
	}

	log.Debug("Running with administrator privileges")
	return nil
}

// run opens a session for cmd, calls fn and recovers from panics
func run(cmd *cobra.Command, opts sessionOptions, fn func(s *session) error) (err error) {
	cfg := NewConfigFromFlags(cmd)

	settings, path, err := loadSettings(cfg)
	if err != nil {
		return err
	}

	if handleLogsFlag(cfg, settings.LoggerOptions(cfg.Verbose), cmd.OutOrStdout(), exit) {
		return nil
	}

	console := cmd.ErrOrStderr()
	if opts.interactive {
		console = io.Discard
	}

	log, err := initializeLogger(cfg, settings, console)
	if err != nil {
		return err
	}

	defer log.Close()

	// Recover from panics and log them
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC RECOVERED",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
			fmt.Fprintf(os.Stderr, "Check log file for details: %s\n", log.GetLogPath())
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	log.Debug("Starting "+version.UserAgent(),
		slog.String("command", cmd.CommandPath()),
		slog.String("settings", path),
		slog.String("root", settings.Registry.Root),
	)

	s := &session{
		cfg:      cfg,
		settings: settings,
		log:      log,
		out:      cmd.OutOrStdout(),
	}

	if !opts.offline {
		if err := s.open(); err != nil {
			return err
		}
	}

	return fn(s)
}

// open binds the platform and loads the catalog
func (s *session) open() error {
	platform, err := newPlatform(s.log)
	if err != nil {
		return err
	}

	s.platform = platform

	if s.cfg.Elevate {
		if err := ensureElevatedWithDeps(s.log, platform.IsElevated, platform.RelaunchAsAdmin, exit); err != nil {
			return err
		}
	}

	repoOpts := s.settings.RepositoryOptions()
	repoOpts.Icons = platform.Icons

	repo := apps.NewRepository(platform.Store, s.log, repoOpts)
	s.catalog = apps.NewCatalog(repo, s.log)

	n := s.catalog.Load()
	s.log.Debug("Catalog loaded", slog.Int("entries", n), slog.String("root", repo.Root()))

	s.scanner, err = scanner.New(platform.Directory, s.log, s.settings.Scan.DescriptionCacheSize)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	return nil
}

// Execute runs the interactive interface.
func Execute(cmd *cobra.Command, args []string) error {
	return run(cmd, sessionOptions{interactive: true}, func(s *session) error {
		return tui.Run(tui.Options{
			Catalog:      s.catalog,
			Scanner:      s.scanner,
			Self:         scanner.Self(),
			Log:          s.log,
			RemovalDelay: s.settings.RemovalDelay(),
		})
	})
}
