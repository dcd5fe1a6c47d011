package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"willchat/storage"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			state := e.store.State()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if query != "" {
				fmt.Fprintln(w, "ID\tTITLE\tMATCH")
				for _, m := range storage.SearchConversations(state.Conversations, query) {
					fmt.Fprintf(w, "%s\t%s\t%s\n", m.ConversationID, m.Title, m.Preview)
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "\tID\tTITLE\tMESSAGES\tUPDATED")
			for _, c := range state.Conversations {
				marker := ""
				if c.ID == state.ActiveID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					marker, c.ID, c.Title, len(c.Messages), storage.FormatTimestamp(c.UpdatedAt))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "search titles and message content")
	return cmd
}
