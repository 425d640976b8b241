package cmd

import (
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/akcfg/internal/apps"
)

var errEntryNotFound = errors.New("no such application")

// parseRef splits a "<mode>/<name>" reference.
func parseRef(ref string) (apps.Mode, string, error) {
	mode, name, ok := strings.Cut(ref, "/")
	if !ok || strings.TrimSpace(name) == "" {
		return 0, "", fmt.Errorf("invalid reference %q (want <mode>/<name>)", ref)
	}

	m, err := apps.ParseMode(mode)
	if err != nil {
		return 0, "", err
	}

	return m, strings.TrimSpace(name), nil
}

// lookup resolves a "<mode>/<name>" reference against the catalog.
func (s *session) lookup(ref string) (*apps.Entry, error) {
	m, name, err := parseRef(ref)
	if err != nil {
		return nil, err
	}

	e := s.catalog.Lookup(m, name)
	if e == nil {
		return nil, fmt.Errorf("%s: %w", ref, errEntryNotFound)
	}

	return e, nil
}

// loadIcon fetches the icon of e; a handle leak is worth a warning, not a failure.
func (s *session) loadIcon(e *apps.Entry) {
	if err := s.catalog.LoadIcon(e); err != nil {
		s.log.Warn("Icon handle cleanup failed", slog.String("path", e.Path()), slog.Any("error", err))
	}
}

func newListCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *apps.Mode
			if mode != "" {
				m, err := apps.ParseMode(mode)
				if err != nil {
					return err
				}

				filter = &m
			}

			return run(cmd, sessionOptions{}, func(s *session) error {
				return s.list(filter)
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "only list applications in this mode")
	return cmd
}

func (s *session) list(filter *apps.Mode) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tNAME\tPATH\tKEY")

	for _, e := range s.catalog.Entries() {
		if filter != nil && e.Mode() != *filter {
			continue
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Mode(), e.DisplayName(), e.Path(), e.StorageKey())
	}

	return tw.Flush()
}

func newModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <mode>/<name> <mode>|next",
		Short: "Move an application to another mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				e, err := s.lookup(args[0])
				if err != nil {
					return err
				}

				if strings.EqualFold(args[1], "next") {
					err = s.catalog.CycleMode(e)
				} else {
					var m apps.Mode
					if m, err = apps.ParseMode(args[1]); err != nil {
						return err
					}

					err = s.catalog.SetMode(e, m)
				}

				if err != nil {
					return err
				}

				fmt.Fprintf(s.out, "%s is now in %s\n", e.DisplayName(), e.Mode())
				return nil
			})
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <mode>/<name> <new-name>",
		Short: "Change the display name of an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				e, err := s.lookup(args[0])
				if err != nil {
					return err
				}

				previous := e.DisplayName()
				if err := s.catalog.Rename(e, args[1]); err != nil {
					return err
				}

				fmt.Fprintf(s.out, "Renamed %s to %s\n", previous, e.DisplayName())
				return nil
			})
		},
	}
}

func newSetPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-path <mode>/<name> <path>",
		Short: "Point an application at another executable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				e, err := s.lookup(args[0])
				if err != nil {
					return err
				}

				if err := s.catalog.SetPath(e, args[1]); err != nil {
					return err
				}

				fmt.Fprintf(s.out, "%s now starts %s\n", e.DisplayName(), e.Path())
				return nil
			})
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <mode>/<name>...",
		Aliases: []string{"rm"},
		Short:   "Remove applications",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				entries := make([]*apps.Entry, 0, len(args))
				for _, ref := range args {
					e, err := s.lookup(ref)
					if err != nil {
						return err
					}

					entries = append(entries, e)
				}

				err := s.catalog.Remove(entries...)

				for _, e := range entries {
					if s.catalog.Index(e) < 0 {
						fmt.Fprintf(s.out, "Removed %s/%s\n", e.Mode(), e.DisplayName())
					}
				}

				return err
			})
		},
	}
}

func newIconCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "icon <mode>/<name>",
		Short: "Export the icon of an application as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{}, func(s *session) error {
				e, err := s.lookup(args[0])
				if err != nil {
					return err
				}

				if e.Icon() == nil {
					s.loadIcon(e)
				}

				if e.Icon() == nil {
					return fmt.Errorf("no icon could be extracted from %s", e.Path())
				}

				return writePNG(out, e)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG file to write")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func writePNG(path string, e *apps.Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(f, e.Icon()); err != nil {
		return fmt.Errorf("failed to encode icon: %w", err)
	}

	return nil
}
