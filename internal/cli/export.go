// Export command: writes a JSONL snapshot of every table.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/realdesk/internal/snapshot"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func newExportCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every table to JSONL files in dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				counts, err := snapshot.Export(ctx, s, args[0])
				if err != nil {
					return err
				}
				if f.jsonMode {
					return f.printJSON(cmd.OutOrStdout(), counts)
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Exported %d properties, %d leads, %d appointments, %d workflows, %d activities to %s\n",
					counts.Properties, counts.Leads, counts.Appointments, counts.Workflows, counts.Activities, args[0])
				return nil
			})
		},
	}
}
