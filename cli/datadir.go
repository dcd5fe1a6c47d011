package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"willchat/config"
)

func newDataDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "data-dir [path]",
		Short: "Show or set the default data directory",
		Long: "Without arguments prints the data directory recorded in settings.toml.\n" +
			"With a path, records it as the default for later runs.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if !config.SystemConfigExists() {
					fmt.Fprintf(out, "%s (default)\n", config.ExpandPath(config.DefaultSystemConfig().DataDirectory))
					return nil
				}
				sys, err := config.LoadSystemConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, config.ExpandPath(sys.DataDirectory))
				return nil
			}

			dir, err := filepath.Abs(config.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("invalid data directory: %w", err)
			}
			sys := config.DefaultSystemConfig()
			sys.DataDirectory = dir
			if err := config.SaveSystemConfig(sys); err != nil {
				return err
			}
			fmt.Fprintf(out, "Data directory set to %s\n", dir)
			return nil
		},
	}
}
