package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/keyed"
	"github.com/Norgate-AV/akcfg/internal/scanner"
	"github.com/Norgate-AV/akcfg/internal/timeouts"
)

// addFlags are the overrides shared by add and pick.
type addFlags struct {
	mode string
	name string
}

func (f *addFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "mode to add the application to (default Function)")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "display name (default the executable's description)")
}

// apply validates the overrides and applies them to a candidate.
func (f *addFlags) apply(e *apps.Entry) error {
	if f.mode != "" {
		m, err := apps.ParseMode(f.mode)
		if err != nil {
			return err
		}

		e.SetMode(m)
	}

	if f.name != "" {
		e.SetDisplayName(strings.TrimSpace(f.name))
	}

	return nil
}

// candidates scans the desktop, skipping configured applications and akcfg itself.
func (s *session) candidates() []*apps.Entry {
	return slices.Collect(s.scanner.Candidates(s.catalog.IgnoreSet(scanner.Self())))
}

// add persists a candidate and reports it.
func (s *session) add(e *apps.Entry, flags *addFlags) error {
	if err := flags.apply(e); err != nil {
		return err
	}

	added, err := s.catalog.Add(e)
	if err != nil {
		return err
	}

	if !added {
		return fmt.Errorf("%s: %w", e.Path(), apps.ErrDuplicatePath)
	}

	s.loadIcon(e)

	fmt.Fprintf(s.out, "Added %s to %s (%s)\n", e.DisplayName(), e.Mode(), e.Path())
	return nil
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List running applications that could be added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tPATH")

				for _, e := range s.candidates() {
					fmt.Fprintf(tw, "%s\t%s\n", e.DisplayName(), e.Path())
				}

				return tw.Flush()
			})
		},
	}
}

func newAddCmd() *cobra.Command {
	var flags addFlags

	cmd := &cobra.Command{
		Use:   "add <path-or-name>",
		Short: "Add a running application, matched by executable path then by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				if e := s.catalog.Find(args[0]); e != nil {
					return fmt.Errorf("%s: %w", e.Path(), apps.ErrDuplicatePath)
				}

				e := matchCandidate(s.candidates(), args[0])
				if e == nil {
					return fmt.Errorf("no running application matches %q", args[0])
				}

				return s.add(e, &flags)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

// samePath is the identity used for entries everywhere: exact path equality.
var samePath = keyed.By(apps.PathKey)

// matchCandidate finds a candidate by executable path, then by display name.
// Names compare case-insensitively like storage keys do.
func matchCandidate(candidates []*apps.Entry, query string) *apps.Entry {
	query = strings.TrimSpace(query)

	for _, e := range candidates {
		if apps.PathKey(e) == query {
			return e
		}
	}

	for _, e := range candidates {
		if strings.EqualFold(e.DisplayName(), query) {
			return e
		}
	}

	return nil
}

func newPickCmd() *cobra.Command {
	var flags addFlags
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Add the application under the mouse cursor after a countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				if !cmd.Flags().Changed("delay") {
					delay = s.settings.PickDelay()
				}

				return s.pick(cmd.Context(), delay, &flags)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVarP(&delay, "delay", "d", timeouts.PickCountdown, "time to move the mouse over the application")
	return cmd
}

func (s *session) pick(ctx context.Context, delay time.Duration, flags *addFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.platform.OnConsoleEvent != nil {
		err := s.platform.OnConsoleEvent(func(event string) {
			s.log.Debug("Received console control event", slog.String("type", event))
			cancel()
		})
		if err != nil {
			s.log.Debug("Console control handler unavailable", slog.Any("error", err))
		}
	}

	if err := s.countdown(ctx, delay); err != nil {
		return err
	}

	var skip []uintptr
	if s.platform.ConsoleWindow != nil {
		if hwnd := s.platform.ConsoleWindow(); hwnd != 0 {
			skip = append(skip, hwnd)
		}
	}

	e, rect, ok := s.scanner.EntryUnderCursor(skip...)
	if !ok {
		return fmt.Errorf("no application found under the mouse cursor")
	}

	s.log.Debug("Picked window",
		slog.String("path", e.Path()),
		slog.Any("bounds", rect),
	)

	if self := scanner.Self(); self != nil && samePath.Equal(self, e) {
		return fmt.Errorf("the window under the mouse cursor belongs to akcfg itself")
	}

	if configured := s.catalog.Find(e.Path()); configured != nil {
		return fmt.Errorf("%s is already configured as %s/%s: %w",
			e.Path(), configured.Mode(), configured.DisplayName(), apps.ErrDuplicatePath)
	}

	return s.add(e, flags)
}

// countdown waits for delay, reporting the remaining time every tick.
func (s *session) countdown(ctx context.Context, delay time.Duration) error {
	for remaining := delay; remaining > 0; remaining -= timeouts.PickTick {
		s.log.Info(fmt.Sprintf("Sampling the window under the mouse cursor in %s...", remaining.Round(time.Second)))

		select {
		case <-ctx.Done():
			return fmt.Errorf("pick cancelled: %w", ctx.Err())
		case <-time.After(min(remaining, timeouts.PickTick)):
		}
	}

	return nil
}
