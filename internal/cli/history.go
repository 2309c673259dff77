package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/192005chandrakant/credlens/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently persisted analysis results",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum results to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Storage.Enabled {
		return fmt.Errorf("result storage is disabled; set storage.enabled in config")
	}

	logger := newLogger()
	store, err := storage.Open(cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	defer func() { _ = store.Close() }()

	results, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No results stored yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSCORE\tBADGE\tTIER\tCLAIMS\tVERDICT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Score, r.Badge, r.ModelTier, len(r.Claims), r.VerdictText)
	}
	return w.Flush()
}
