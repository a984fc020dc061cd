package jira

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/internal/hierarchy"
	"github.com/clintrovert/sprintreport/pkg/types"
)

// DefaultMaxResults is the page size requested for the primary query
const DefaultMaxResults = 500

// Searcher runs a JQL query and returns normalized issues
type Searcher interface {
	SearchAndParse(ctx context.Context, jql string, maxResults int) ([]types.Issue, error)
}

// Fetcher runs the report query and builds the epic hierarchy from it
type Fetcher struct {
	searcher   Searcher
	logger     *zap.Logger
	maxResults int
}

// NewFetcher creates a new fetcher
func NewFetcher(searcher Searcher, maxResults int, logger *zap.Logger) *Fetcher {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Fetcher{
		searcher:   searcher,
		logger:     logger,
		maxResults: maxResults,
	}
}

// Fetch runs jql and returns the reconciled epic hierarchy
func (f *Fetcher) Fetch(ctx context.Context, jql string) (*types.GroupedResult, error) {
	f.logger.Info("fetching issues from jira", zap.String("jql", jql))

	issues, err := f.searcher.SearchAndParse(ctx, jql, f.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sprint issues: %w", err)
	}

	f.logger.Info("found issues from jql", zap.Int("count", len(issues)))

	return hierarchy.NewBuilder(f, f.logger).Build(ctx, issues), nil
}

// LookupEpics fetches the given epics with a single key query
func (f *Fetcher) LookupEpics(ctx context.Context, keys []string) ([]types.Issue, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	f.logger.Info("fetching additional epic details", zap.Int("count", len(keys)))

	epics, err := f.searcher.SearchAndParse(ctx, EpicKeysJQL(keys), len(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch epic details: %w", err)
	}

	return epics, nil
}

// EpicKeysJQL builds a query selecting exactly the given issue keys
func EpicKeysJQL(keys []string) string {
	return fmt.Sprintf("key in (%s)", strings.Join(keys, ","))
}
