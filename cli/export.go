package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"willchat/storage"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id|active> [path]",
		Short: "Write a conversation to a JSON file",
		Long:  "Write a conversation to a JSON file. Without a path the file goes to ~/Downloads.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			id := args[0]
			if id == "active" {
				id = e.store.ActiveID()
			}
			conv, ok := e.store.Conversation(id)
			if !ok {
				return fmt.Errorf("conversation %s not found", args[0])
			}

			path := storage.GenerateExportPath(conv.Title, time.Now())
			if len(args) == 2 {
				path = args[1]
			}
			if err := storage.ExportConversation(conv, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", conv.Title, path)
			return nil
		},
	}
}
