package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/pipeline"
	"github.com/192005chandrakant/credlens/internal/schedule"
)

var watchFeeds []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously analyze items from fact-check feeds",
	Long: `Watch polls the configured RSS/Atom feeds on a schedule, analyzes items
it has not seen before, and keeps the claim index and cache maintained.
Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchFeeds, "feed", nil, "feed URL to watch (repeatable; default: config watch.feeds)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	feeds := cfg.Watch.Feeds
	if len(watchFeeds) > 0 {
		feeds = watchFeeds
	}
	if len(feeds) == 0 {
		return fmt.Errorf("no feeds configured; set watch.feeds or pass --feed")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	m := schedule.New(a.logger)
	if err := m.AddIndexSnapshot(cfg.Watch.SnapshotSchedule, a.index, a.idxStore); err != nil {
		return err
	}
	if a.cache != nil {
		if err := m.AddCacheSweep(cfg.Watch.SnapshotSchedule, a.cache); err != nil {
			return err
		}
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	watcher := schedule.NewFeedWatcher(feeds, a.pipeline,
		func(req model.AnalyzeRequest, result *model.AnalysisResult) {
			renderer.RenderSummary(os.Stdout, result)
		}, a.logger)
	if err := watcher.AddTo(m, cfg.Watch.Schedule); err != nil {
		return err
	}

	m.Start()
	defer m.Stop()

	fmt.Fprintf(os.Stderr, "Watching %d feeds (schedule %q); Ctrl-C to stop\n", len(feeds), cfg.Watch.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Fprintln(os.Stderr, "Shutting down")
	return nil
}
