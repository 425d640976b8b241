package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/akcfg/internal/config"
)

func newConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, sessionOptions{offline: true}, func(s *session) error {
				if write {
					path := s.cfg.ConfigPath
					if path == "" {
						path = config.DefaultPath()
					}

					if err := config.Save(s.settings, path); err != nil {
						return err
					}

					s.log.Info(fmt.Sprintf("Settings written to %s", path))
				}

				return s.settings.Encode(s.out)
			})
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "also write the effective settings to the settings file")
	return cmd
}
