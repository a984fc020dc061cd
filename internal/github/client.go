package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub search API
type Client struct {
	apiClient *github.Client
	logger    *zap.Logger
}

// NewClient creates a new GitHub client authenticated with accessToken
func NewClient(accessToken string, logger *zap.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	return newClient(tc, logger)
}

func newClient(httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		apiClient: github.NewClient(httpClient),
		logger:    logger,
	}
}

// CountReviews returns the number of pull requests in repos reviewed by each
// reviewer and updated between start and end, summed over reviewers
func (c *Client) CountReviews(ctx context.Context, repos, reviewers []string, start, end string) (int, error) {
	total := 0
	for _, reviewer := range reviewers {
		query := ReviewQuery(reviewer, repos, start, end)

		result, _, err := c.apiClient.Search.Issues(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: 1},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to search reviews by %s: %w", reviewer, err)
		}

		c.logger.Debug("counted pull request reviews",
			zap.String("reviewer", reviewer),
			zap.Int("count", result.GetTotal()),
		)
		total += result.GetTotal()
	}

	c.logger.Info("counted pull request reviews",
		zap.Int("reviewers", len(reviewers)),
		zap.Int("total", total),
	)

	return total, nil
}
