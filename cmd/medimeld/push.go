// Push command: submit a batch of notes to a running sync server, the way
// the mobile client does, and report the partitioned outcome.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/medimeld/medimeld/pkg/types"
)

var (
	flagPushServer   string
	flagPushFile     string
	flagPushGenerate int
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a batch of notes to a sync server",
	Long: `Push submits clinical notes to a running server's /sync endpoint and
prints the summary. Notes come from a JSON file (an array of clinical
notes) or are generated as sample data with --generate.`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&flagPushServer, "server", "http://localhost:8000", "base URL of the sync server")
	pushCmd.Flags().StringVar(&flagPushFile, "file", "", "JSON file holding an array of clinical notes")
	pushCmd.Flags().IntVar(&flagPushGenerate, "generate", 0, "generate N sample notes instead of reading a file")
}

func runPush(cmd *cobra.Command, args []string) error {
	var notes []*types.ClinicalNote
	switch {
	case flagPushFile != "":
		data, err := os.ReadFile(flagPushFile)
		if err != nil {
			return fmt.Errorf("read notes file: %w", err)
		}
		if err := json.Unmarshal(data, &notes); err != nil {
			return fmt.Errorf("parse notes file: %w", err)
		}
	case flagPushGenerate > 0:
		notes = generateSampleNotes(flagPushGenerate)
	default:
		return fmt.Errorf("either --file or --generate is required")
	}

	body, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	url := strings.TrimSuffix(flagPushServer, "/") + "/sync"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sync failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var summary types.SyncSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return fmt.Errorf("decode summary: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "synced: %d\n", summary.SyncedCount)
	fmt.Fprintf(out, "failed: %d\n", summary.FailedCount)
	for _, f := range summary.FailedNotes {
		fmt.Fprintf(out, "  %s: %s\n", f.ContentHash, f.Error)
	}
	return nil
}

// generateSampleNotes builds n valid notes with random classifications,
// for exercising a server without a device in hand.
func generateSampleNotes(n int) []*types.ClinicalNote {
	woundTypes := []types.WoundType{
		types.WoundAbrasion, types.WoundLaceration, types.WoundPuncture,
		types.WoundBurn, types.WoundUlcer, types.WoundSurgical,
		types.WoundPressureSore, types.WoundOther,
	}
	severities := []types.WoundSeverity{
		types.SeverityMild, types.SeverityModerate,
		types.SeveritySevere, types.SeverityCritical,
	}

	notes := make([]*types.ClinicalNote, 0, n)
	for i := 0; i < n; i++ {
		wt := woundTypes[rand.Intn(len(woundTypes))]
		sev := severities[rand.Intn(len(severities))]
		notes = append(notes, &types.ClinicalNote{
			ContentHash:   uuid.NewString(),
			WoundType:     wt,
			WoundSeverity: sev,
			NoteText: fmt.Sprintf(
				"Subjective: patient presents with %s wound.\nObjective: %s severity wound observed.\nAssessment: %s wound, %s severity.\nPlan: standard wound care protocol.",
				wt, sev, wt, sev,
			),
			ObservedAt: time.Now().UTC().Add(-time.Duration(rand.Intn(24)+1) * time.Hour),
		})
	}
	return notes
}
