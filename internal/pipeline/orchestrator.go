// Package pipeline runs the report pipeline from query to Markdown file.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/internal/config"
	"github.com/clintrovert/sprintreport/internal/report"
	"github.com/clintrovert/sprintreport/pkg/types"
)

// Fetcher builds the epic hierarchy for a query
type Fetcher interface {
	Fetch(ctx context.Context, jql string) (*types.GroupedResult, error)
}

// ReviewCounter counts pull request reviews for the PR review metric
type ReviewCounter interface {
	CountReviews(ctx context.Context, repos, reviewers []string, start, end string) (int, error)
}

// Orchestrator coordinates fetching, rendering and writing a report
type Orchestrator struct {
	fetcher  Fetcher
	reviews  ReviewCounter
	renderer *report.Renderer
	cfg      *config.Config
	logger   *zap.Logger
}

// NewOrchestrator creates a new orchestrator. reviews may be nil.
func NewOrchestrator(
	fetcher Fetcher,
	reviews ReviewCounter,
	cfg *config.Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		reviews:  reviews,
		renderer: report.NewRenderer(cfg.BrowseURL(), cfg.Output.TitlePrefix),
		cfg:      cfg,
		logger:   logger,
	}
}

// Generate renders the report for jql
func (o *Orchestrator) Generate(ctx context.Context, jql string) (string, error) {
	o.logger.Info("generating sprint report")

	grouped, err := o.fetcher.Fetch(ctx, jql)
	if err != nil {
		return "", err
	}

	metrics := o.metrics(ctx)

	return o.renderer.Render(grouped, o.cfg.Sprint(), metrics, o.cfg.Kudos), nil
}

// Run renders the report for jql and writes it to outputPath
func (o *Orchestrator) Run(ctx context.Context, jql, outputPath string) error {
	content, err := o.Generate(ctx, jql)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	o.logger.Info("report saved", zap.String("path", outputPath))
	return nil
}

// metrics returns the configured figures, counting PR reviews on GitHub when
// no count is configured
func (o *Orchestrator) metrics(ctx context.Context) types.Metrics {
	m := types.Metrics{
		StoryPointsCompleted: o.cfg.Metrics.StoryPointsCompleted,
	}

	if o.cfg.Metrics.PRReviewsCount != nil {
		m.PRReviewsCount = *o.cfg.Metrics.PRReviewsCount
		return m
	}

	gh := o.cfg.GitHub
	if o.reviews == nil || gh == nil || len(gh.Reviewers) == 0 {
		return m
	}

	count, err := o.reviews.CountReviews(ctx, gh.Repositories, gh.Reviewers, o.cfg.SprintInfo.StartDate, o.cfg.SprintInfo.EndDate)
	if err != nil {
		o.logger.Warn("failed to count pull request reviews", zap.Error(err))
		return m
	}

	m.PRReviewsCount = count
	return m
}
