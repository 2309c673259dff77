package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/pipeline"
)

var (
	analyzeType     string
	analyzeLang     string
	analyzeForcePro bool
	analyzeNoCache  bool
	analyzeTimeout  time.Duration
	analyzeJSON     string
	analyzeMD       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text or url>",
	Short: "Analyze content for misinformation risk",
	Long: `Analyze runs the full pipeline on one piece of content:
claim extraction, evidence retrieval, stance analysis, risk scoring, and
verdict generation.

Examples:
  credlens analyze "The Great Wall of China is visible from space"
  credlens analyze https://example.com/article --json report.json
  credlens analyze "..." --lang hi --force-pro`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "content type: text, url, image (default: auto-detect)")
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "language hint (ISO 639-1 code)")
	analyzeCmd.Flags().BoolVar(&analyzeForcePro, "force-pro", false, "force the high-capability model tier")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "bypass the result cache")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write full result JSON to this path")
	analyzeCmd.Flags().StringVar(&analyzeMD, "md", "", "write a Markdown report to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	content := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeNoCache {
		cfg.Cache.Enabled = false
	}

	contentType := model.ContentType(analyzeType)
	if analyzeType == "" {
		contentType = model.ContentTypeText
		if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
			contentType = model.ContentTypeURL
		}
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	result, err := a.pipeline.Analyze(ctx, model.AnalyzeRequest{
		Content:       content,
		ContentType:   contentType,
		LanguageHint:  analyzeLang,
		ForceHighTier: analyzeForcePro,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if analyzeJSON != "" {
		if err := renderer.RenderJSON(result, analyzeJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", analyzeJSON)
		}
	}
	if analyzeMD != "" {
		if err := renderer.RenderMarkdown(result, analyzeMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", analyzeMD)
		}
	}
	renderer.RenderSummary(os.Stdout, result)
	return nil
}
