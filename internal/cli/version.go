package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/realdesk/pkg/realdesk"
)

const modulePath = "github.com/mesh-intelligence/realdesk"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the realdesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "realdesk v%s\nmodule: %s\n", realdesk.Version, modulePath)
			return nil
		},
	}
}
