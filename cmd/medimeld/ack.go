// Ack command: acknowledge a note on behalf of a downstream consumer.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/medimeld/medimeld/internal/syncer"
	"github.com/medimeld/medimeld/pkg/types"
)

var ackCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Mark a note as absorbed by the downstream consumer",
	Long:  "Record the downstream acknowledgment for a note. Idempotent: repeating the command succeeds and keeps the first acknowledgment time.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAck,
}

func runAck(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id %q", args[0])
	}

	logger := newLogger("")
	store, err := attachStore(logger)
	if err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	svc := syncer.New(store, logger)
	if err := svc.Acknowledge(id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("note %d not found", id)
		}
		return fmt.Errorf("acknowledge note: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "note %d acknowledged\n", id)
	return nil
}
