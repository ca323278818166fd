// List command: show stored notes, newest first, as JSON.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagListLimit  int
	flagListOffset int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored notes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&flagListLimit, "limit", 100, "maximum number of notes to return")
	listCmd.Flags().IntVar(&flagListOffset, "offset", 0, "number of notes to skip")
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := attachStore(newLogger(""))
	if err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	notes, err := store.List(flagListLimit, flagListOffset)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	output, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
