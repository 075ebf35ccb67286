package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/taxon/pkg/taxon/snapshot"
)

var exportSnapshot string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the taxonomy one classification per line",
	Long: `Prints the configured taxonomy one comma-joined classification per
line, deeper classifications ahead of their ancestors. With --snapshot the
latest stored snapshot of that name is printed instead. The output can be fed
back through LOAD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		comp, cleanup, err := buildComponents(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var snap snapshot.Snapshot
		if exportSnapshot != "" {
			var ok bool
			snap, ok, err = comp.Store.LatestSnapshot(ctx, exportSnapshot)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no snapshot named %q", exportSnapshot)
			}
		} else {
			snap = comp.Snapshots.Take("export", comp.Tree)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), snapshot.Export(snap))
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportSnapshot, "snapshot", "s", "", "Export the latest stored snapshot with this name")
}
