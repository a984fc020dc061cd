package jira

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/pkg/types"
)

const (
	// MaxPageSize is the largest page the search endpoint returns
	MaxPageSize = 100

	searchPath = "rest/api/3/search/jql"
	myselfPath = "rest/api/3/myself"
)

// ErrMissingCredentials is returned when the email or API token is empty
var ErrMissingCredentials = errors.New("jira credentials not found: set JIRA_EMAIL and JIRA_API_TOKEN")

// Client wraps Jira API client functionality
type Client struct {
	client *jira.Client
	logger *zap.Logger
	fields FieldIDs
}

// searchPage is one page of the search endpoint response
type searchPage struct {
	StartAt       int        `json:"startAt"`
	MaxResults    int        `json:"maxResults"`
	Total         int        `json:"total"`
	IsLast        bool       `json:"isLast"`
	NextPageToken string     `json:"nextPageToken"`
	Issues        []RawIssue `json:"issues"`
}

// NewClient creates a new Jira client authenticated with basic auth
func NewClient(serverURL, email, apiToken string, logger *zap.Logger) (*Client, error) {
	if email == "" || apiToken == "" {
		return nil, ErrMissingCredentials
	}

	tp := jira.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}

	client, err := jira.NewClient(tp.Client(), strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
		fields: DefaultFieldIDs(),
	}, nil
}

// WithFields sets the custom field IDs used when parsing issues
func (c *Client) WithFields(fields FieldIDs) *Client {
	c.fields = fields.withDefaults()
	return c
}

// TestConnection checks that the credentials are accepted. Failures are
// logged and reported as false.
func (c *Client) TestConnection(ctx context.Context) bool {
	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, myselfPath, nil)
	if err != nil {
		c.logger.Error("failed to build connection request", zap.Error(err))
		return false
	}

	var user jira.User
	resp, err := c.client.Do(req, &user)
	if err != nil {
		c.logFailure("failed to connect to jira", resp, err)
		return false
	}

	c.logger.Info("connected to jira", zap.String("user", user.DisplayName))
	return true
}

// SearchIssues runs a JQL query and returns every matching issue, one page
// at a time. Any failed page fails the whole search.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]RawIssue, error) {
	pageSize := maxResults
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	issues := []RawIssue{}
	startAt := 0
	nextPageToken := ""

	for {
		page, err := c.searchPage(ctx, jql, startAt, pageSize, nextPageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to search issues at offset %d: %w", startAt, err)
		}

		issues = append(issues, page.Issues...)
		c.logger.Debug("fetched issues page",
			zap.Int("count", len(page.Issues)),
			zap.Int("total", len(issues)),
		)

		if lastPage(page, startAt) {
			break
		}

		startAt += len(page.Issues)
		nextPageToken = page.NextPageToken
	}

	c.logger.Info("fetched issues", zap.Int("count", len(issues)))
	return issues, nil
}

// lastPage reports whether the search should stop after page
func lastPage(page *searchPage, startAt int) bool {
	switch {
	case len(page.Issues) == 0, page.IsLast:
		return true
	case page.Total > 0:
		return startAt+len(page.Issues) >= page.Total
	default:
		return page.NextPageToken == ""
	}
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt, pageSize int, nextPageToken string) (*searchPage, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("fields", "*all")
	if nextPageToken != "" {
		params.Set("nextPageToken", nextPageToken)
	}

	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	var page searchPage
	resp, err := c.client.Do(req, &page)
	if err != nil {
		c.logFailure("failed jql search", resp, err)
		return nil, err
	}

	return &page, nil
}

// SearchAndParse runs a JQL query and normalizes the results
func (c *Client) SearchAndParse(ctx context.Context, jql string, maxResults int) ([]types.Issue, error) {
	raws, err := c.SearchIssues(ctx, jql, maxResults)
	if err != nil {
		return nil, err
	}

	issues := make([]types.Issue, 0, len(raws))
	for _, raw := range raws {
		issues = append(issues, c.fields.Parse(raw))
	}
	return issues, nil
}

// logFailure logs a request error along with the response status and body
func (c *Client) logFailure(msg string, resp *jira.Response, err error) {
	fields := []zap.Field{zap.Error(err)}
	if resp != nil && resp.Response != nil {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		if resp.Body != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if len(body) > 0 {
				fields = append(fields, zap.ByteString("body", body))
			}
		}
	}
	c.logger.Error(msg, fields...)
}
