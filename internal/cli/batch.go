package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/192005chandrakant/credlens/internal/pipeline"
	"github.com/192005chandrakant/credlens/internal/worker"
)

var (
	batchWorkers int
	batchTimeout time.Duration
	batchJSONDir string
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many inputs from a file",
	Long: `Batch reads one input per line (URLs or text; blank lines and #-comments
are skipped) and analyzes them concurrently. Duplicate lines are analyzed
once.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent analyses (default: config batch.workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchJSONDir, "json-dir", "", "write one JSON result per item into this directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(a.pipeline, workers)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if batchJSONDir != "" {
		if err := os.MkdirAll(batchJSONDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", truncateLine(r.Request.Content), r.Err)
			continue
		}
		renderer.RenderSummary(os.Stdout, r.Result)
		if batchJSONDir != "" {
			path := fmt.Sprintf("%s/%s.json", batchJSONDir, r.Result.ContentID[:12])
			if err := renderer.RenderJSON(r.Result, path); err != nil {
				a.logger.Warn("write batch result", "path", path, "err", err)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\nProcessed %d inputs, %d failed\n", len(results), failed)
	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d inputs failed", failed)
	}
	return nil
}

func truncateLine(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
