package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmendes/orca/internal/cli"
	"github.com/gmendes/orca/internal/common"
	"github.com/gmendes/orca/internal/review"
	"github.com/gmendes/orca/internal/service"
	"github.com/gmendes/orca/internal/tui"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Extract catalog records from free text and review them",
		Long: `Import reads a quote, invoice, or price list as free text (from a file or
stdin), extracts candidate records with the configured LLM, and walks you
through every near-duplicate before anything is committed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("kind", "insumo", "catalog family to import into (insumo, composition)")
	cmd.Flags().Bool("tui", false, "resolve duplicates in a full-screen view")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	started := time.Now()

	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := parseKind(kindFlag)
	if err != nil {
		return err
	}

	rawText, err := readImportText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rawText) == "" {
		return common.NewUserError("nothing to import: the input is empty", nil)
	}

	adapter, err := createAdapter()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	snapshot, err := store.ListRecords(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	prompter := cli.NewPrompter(nil, nil)
	var matchPrompter review.Prompter = prompter
	if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
		matchPrompter = tui.NewPrompter()
	}

	controller := review.NewController(adapter, adapter, matchPrompter, slog.Default())
	batch, err := controller.Run(ctx, rawText, snapshot)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrReviewCancelled):
			prompter.ShowNotice("import cancelled, nothing was written")
			return nil
		case errors.Is(err, common.ErrInvalidInput):
			return common.NewUserError("the input does not look like a price list or quote", err)
		default:
			return err
		}
	}

	if batch.Empty() {
		prompter.ShowNotice("no records found in the input")
		return nil
	}

	staging, err := review.NewStaging(batch)
	if err != nil {
		return err
	}

	ok, err := prompter.ReviewStaging(ctx, staging, adapter)
	if err != nil {
		return err
	}
	if !ok {
		prompter.ShowNotice("import aborted, nothing was written")
		return nil
	}

	committer := review.NewCommitter(store, kind, slog.Default())
	summary, err := committer.Commit(ctx, staging)
	if err != nil {
		return err
	}

	prompter.ShowSummary(service.ImportStats{
		Parsed:         len(batch.Candidates),
		AutoResolved:   batch.AutoResolved,
		UserResolved:   batch.UserResolved,
		Added:          summary.Added,
		Updated:        summary.Updated,
		SkippedInvalid: summary.SkippedInvalid,
		DroppedUpdates: summary.DroppedUpdates,
		WriteFailures:  summary.WriteFailures,
		Duration:       time.Since(started),
	})
	return nil
}

// readImportText reads the raw import text from the named file, or stdin when
// no file is given.
func readImportText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
