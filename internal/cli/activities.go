// Activities command: prints the activity log newest first.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func newActivitiesCmd(f *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show the activity log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return userError("--limit must not be negative")
			}
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				acts, err := s.Activities().List(ctx, limit)
				if err != nil {
					return err
				}
				if f.jsonMode {
					return f.printJSON(cmd.OutOrStdout(), acts)
				}
				out := cmd.OutOrStdout()
				for _, a := range acts {
					fmt.Fprintf(out, "%s  %-20s %s\n", a.CreatedAt.Format(time.RFC3339), a.Type, a.Description)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 shows all)")
	return cmd
}
