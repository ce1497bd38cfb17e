// Entity commands: list, get, create, update and delete for any kind.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

const kindsHelp = "Kinds: properties, leads, appointments, workflows (singular names work too)."

func newListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List every record of a kind in id order",
		Long:  "List prints every record of the kind as JSON.\n\n" + kindsHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				_, ops, err := lookupKind(s, args[0])
				if err != nil {
					return err
				}
				records, err := ops.list(ctx)
				if err != nil {
					return err
				}
				return f.printJSON(cmd.OutOrStdout(), records)
			})
		},
	}
}

func newGetCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Show one record",
		Long:  "Get prints the record with the given id.\n\n" + kindsHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				kind, ops, err := lookupKind(s, args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				record, ok, err := ops.get(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return userError("%s/%d not found", kind, id)
				}
				return f.printJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}

func newCreateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <kind> <json|->",
		Short: "Create a record from JSON",
		Long: `Create validates the JSON body (use - to read it from stdin), stores the
record and logs a created activity.

` + kindsHelp + `

Example:
  realdesk create lead '{"name":"Lucía Pérez","email":"lucia@example.com","interest":"apartment"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				_, ops, err := lookupKind(s, args[0])
				if err != nil {
					return err
				}
				data, err := readPayload(args[1], cmd.InOrStdin())
				if err != nil {
					return err
				}
				record, err := ops.create(ctx, data)
				if err != nil {
					return err
				}
				return f.printJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}

func newUpdateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "update <kind> <id> <json|->",
		Short: "Merge a JSON patch into a record",
		Long: `Update merges the given fields into the record; omitted fields keep their
values. updatedAt is refreshed and an updated activity is logged.

` + kindsHelp + `

Example:
  realdesk update property 3 '{"status":"reserved"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				kind, ops, err := lookupKind(s, args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				data, err := readPayload(args[2], cmd.InOrStdin())
				if err != nil {
					return err
				}
				record, ok, err := ops.update(ctx, id, data)
				if err != nil {
					return err
				}
				if !ok {
					return userError("%s/%d not found", kind, id)
				}
				return f.printJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Remove a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withStore(cmd, func(ctx context.Context, s types.Store) error {
				kind, ops, err := lookupKind(s, args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				ok, err := ops.delete(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return userError("%s/%d not found", kind, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%d\n", kind, id)
				return nil
			})
		},
	}
}
