// Pending command: show notes awaiting downstream acknowledgment.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medimeld/medimeld/internal/syncer"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List notes not yet acknowledged downstream, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runPending,
}

func runPending(cmd *cobra.Command, args []string) error {
	logger := newLogger("")
	store, err := attachStore(logger)
	if err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	svc := syncer.New(store, logger)
	notes, err := svc.FetchPending()
	if err != nil {
		return fmt.Errorf("fetch pending notes: %w", err)
	}

	output, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
