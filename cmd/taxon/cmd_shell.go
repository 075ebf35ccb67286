package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/taxon/pkg/taxon/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Read taxonomy commands from standard input",
	Long: `Reads whitespace-separated commands from standard input and answers each
on its own line:

  LOAD <file>            load one comma-joined classification per line
  INSERT <a,b,c>         register a classification
  ERASE <a,b,c>          unregister a classification
  CLASSIFY <text>        classify a single-word text
  PRINT | SIZE | EMPTY | CLEAR
  SAVE <name>            store a snapshot of the taxonomy
  RESTORE <name>         replace the taxonomy with the latest snapshot
  EXIT`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	comp, cleanup, err := buildComponents(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	session := &shell.Session{
		Tree:      comp.Tree,
		Oracle:    comp.Oracle,
		Store:     comp.Store,
		Snapshots: comp.Snapshots,
		Logger:    logger.Named("shell"),
	}
	return session.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

