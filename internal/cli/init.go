// Init command: writes config.yaml and creates the store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/realdesk/internal/config"
	"github.com/mesh-intelligence/realdesk/internal/paths"
	"github.com/mesh-intelligence/realdesk/pkg/realdesk"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize realdesk configuration and storage",
		Long: `Create the configuration directory with a config.yaml, then open the
configured store once so its schema exists. An existing config.yaml is kept
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(f.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			file := config.DefaultFile()
			if f.backend != "" {
				file.Store.Backend = f.backend
			}
			if f.dataDir != "" {
				file.Store.DataDir = f.dataDir
			}
			if err := config.WriteFile(configDir, file, force); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			cfg, err := f.load()
			if err != nil {
				return err
			}
			s, err := realdesk.Open(cmd.Context(), cfg.Store, realdesk.WithLogger(f.logger()))
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			if err := s.Close(); err != nil {
				return fmt.Errorf("close store: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "realdesk initialized")
			fmt.Fprintf(out, "  config:  %s\n", configDir)
			fmt.Fprintf(out, "  backend: %s\n", cfg.Store.Backend)
			fmt.Fprintf(out, "  data:    %s\n", cfg.Store.DataDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}
