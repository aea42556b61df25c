// Package orchestrator runs the fetch pipeline over a batch of URLs, one at
// a time and in input order.
package orchestrator

import (
	"context"
	"strings"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/hashindex"
	"go.uber.org/zap"
)

// ImageFetcher fetches a single URL against the index
type ImageFetcher interface {
	Fetch(ctx context.Context, idx *hashindex.Index, rawURL string) domain.FetchResult
}

// Reporter presents outcomes as they happen
type Reporter interface {
	// Processing is called before each fetch
	Processing(rawURL string)

	// Report is called once per URL, including rejected input entries
	Report(result domain.FetchResult)

	// NoURLs is called instead of Summary when nothing valid was given
	NoURLs()

	// Summary is called after the last URL
	Summary(summary Summary)
}

// Summary aggregates the outcomes of one run
type Summary struct {
	Results []domain.FetchResult
	Saved   int
	Skipped int
	Failed  int
}

// Total returns the number of reported outcomes
func (s Summary) Total() int {
	return len(s.Results)
}

func (s *Summary) add(r domain.FetchResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case domain.OutcomeSaved:
		s.Saved++
	case domain.OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Orchestrator drives the Fetcher over a URL list
type Orchestrator struct {
	fetcher  ImageFetcher
	index    *hashindex.Index
	reporter Reporter
	logger   *zap.Logger
}

// New creates a new Orchestrator. The index is owned by the caller and is
// mutated in place as images are saved.
func New(fetcher ImageFetcher, index *hashindex.Index, reporter Reporter, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:  fetcher,
		index:    index,
		reporter: reporter,
		logger:   logger,
	}
}

// ParseURLList splits comma-separated inputs into trimmed, non-empty
// entries. Entries that are not http(s) URLs come back as InvalidURL
// results instead of URLs; their relative order is preserved in each list.
func ParseURLList(inputs ...string) ([]string, []domain.FetchResult) {
	var urls []string
	var rejected []domain.FetchResult
	for _, input := range inputs {
		for _, part := range strings.Split(input, ",") {
			entry := strings.TrimSpace(part)
			if entry == "" {
				continue
			}
			if _, err := domain.ParseURL(entry); err != nil {
				rejected = append(rejected, domain.ResultFromError(entry, err))
				continue
			}
			urls = append(urls, entry)
		}
	}
	return urls, rejected
}

// Run parses the inputs and fetches every valid URL sequentially. A failed
// URL never stops the batch.
func (o *Orchestrator) Run(ctx context.Context, inputs ...string) Summary {
	urls, rejected := ParseURLList(inputs...)

	var summary Summary
	for _, r := range rejected {
		summary.add(r)
		o.reporter.Report(r)
	}

	if len(urls) == 0 {
		o.logger.Info("no valid urls provided", zap.Int("rejected", len(rejected)))
		o.reporter.NoURLs()
		return summary
	}

	o.logger.Debug("starting batch",
		zap.Int("urls", len(urls)),
		zap.Int("rejected", len(rejected)),
		zap.Int("known_digests", o.index.Len()))

	for _, u := range urls {
		o.reporter.Processing(u)
		r := o.fetcher.Fetch(ctx, o.index, u)
		summary.add(r)
		o.reporter.Report(r)
	}

	o.logger.Info("batch complete",
		zap.Int("saved", summary.Saved),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("known_digests", o.index.Len()))

	o.reporter.Summary(summary)
	return summary
}
