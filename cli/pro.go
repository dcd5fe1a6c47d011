package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"willchat/config"
)

func newProCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pro",
		Short: "Manage pro mode",
	}
	cmd.AddCommand(
		newProActivateCommand(opts),
		newProDeactivateCommand(opts),
		newProHashCommand(opts),
	)
	return cmd
}

func newProActivateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <username> [password]",
		Short: "Enable pro mode; the password is read from stdin when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordArg(cmd, args, 1)
			if err != nil {
				return err
			}

			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.pro.Activate(args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pro mode enabled (model %s)\n", e.pro.Model())
			return nil
		},
	}
}

func newProDeactivateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Disable pro mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			e.pro.Deactivate()
			fmt.Fprintln(cmd.OutOrStdout(), "Pro mode disabled")
			return nil
		},
	}
}

func newProHashCommand(opts *rootOptions) *cobra.Command {
	var saveUser string

	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Print a bcrypt hash for the [pro] password_hash setting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordArg(cmd, args, 0)
			if err != nil {
				return err
			}

			if saveUser != "" {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				if err := config.SaveProCredentials(cfg.DataDir(), saveUser, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved pro credentials for %s\n", saveUser)
				return nil
			}

			hash, err := config.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&saveUser, "save", "", "write the credentials for this username to config.toml")
	return cmd
}

// passwordArg returns args[i], or the first line of stdin when it is absent.
func passwordArg(cmd *cobra.Command, args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
