package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"willchat/model"
)

func newAskCommand(opts *rootOptions) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Send one message to the active conversation and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.TrimSpace(strings.Join(args, " "))
			if content == "" {
				return fmt.Errorf("message cannot be empty")
			}

			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if fresh {
				e.store.CreateNewConversation()
			}

			reply, err := e.store.SendMessage(cmd.Context(), content)
			if err != nil {
				return err
			}
			if reply.Status == model.StatusError {
				return errors.New(reply.Content)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fresh, "new", false, "start a new conversation first")
	return cmd
}
