package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Analyzer runs one analysis request. Implemented by the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error)
}

// AnalyzeJob analyzes one input item.
type AnalyzeJob struct {
	Request  model.AnalyzeRequest
	Analyzer Analyzer
}

// Execute implements Job.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Request)
	return &AnalyzeResult{Request: j.Request, Result: result, Err: err}
}

// AnalyzeResult is the outcome of one batch item.
type AnalyzeResult struct {
	Request model.AnalyzeRequest
	Result  *model.AnalysisResult
	Err     error
}

// GetError implements Result.
func (r *AnalyzeResult) GetError() error { return r.Err }

// BatchProcessor runs many analysis requests through a pool.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a processor with the given concurrency.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// Process runs every request concurrently and returns all outcomes.
func (b *BatchProcessor) Process(ctx context.Context, requests []model.AnalyzeRequest) []*AnalyzeResult {
	if len(requests) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()
	for _, req := range requests {
		pool.Submit(&AnalyzeJob{Request: req, Analyzer: b.analyzer})
	}

	results := pool.Wait()
	out := make([]*AnalyzeResult, len(results))
	for i, r := range results {
		out[i] = r.(*AnalyzeResult)
	}
	return out
}

// ProcessFile reads one input per line (URLs become url requests, everything
// else text) and processes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AnalyzeResult, error) {
	requests, err := ReadRequestsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return b.Process(ctx, requests), nil
}

// ReadRequestsFromFile parses a batch input file: one item per line, blank
// lines and #-comments skipped, duplicates dropped.
func ReadRequestsFromFile(path string) ([]model.AnalyzeRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []model.AnalyzeRequest
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true

		contentType := model.ContentTypeText
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			contentType = model.ContentTypeURL
		}
		requests = append(requests, model.AnalyzeRequest{Content: line, ContentType: contentType})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return requests, nil
}
