package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clintrovert/sprintreport/pkg/types"
)

// DefaultReportFile is used when the config names no output file
const DefaultReportFile = "sprint_report.md"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the report configuration file
type Config struct {
	SprintInfo *SprintInfo   `yaml:"sprint_info"`
	Jira       *JiraConfig   `yaml:"jira"`
	Output     *OutputConfig `yaml:"output"`
	Kudos      []string      `yaml:"kudos"`
	Metrics    MetricsConfig `yaml:"metrics"`
	GitHub     *GitHubConfig `yaml:"github"`
}

// SprintInfo describes the sprint being reported
type SprintInfo struct {
	SprintNumber string `yaml:"sprint_number"`
	SprintName   string `yaml:"sprint_name"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`
	TeamName     string `yaml:"team_name"`
}

// JiraConfig holds the Jira connection and query settings
type JiraConfig struct {
	ServerURL         string       `yaml:"server_url"`
	IssueNavigatorURL string       `yaml:"issue_navigator_url"`
	JQLQuery          string       `yaml:"jql_query"`
	BrowseURL         string       `yaml:"browse_url"`
	MaxResults        int          `yaml:"max_results"`
	Fields            FieldsConfig `yaml:"fields"`
}

// FieldsConfig overrides the custom field IDs for epic and sprint data
type FieldsConfig struct {
	EpicLink string `yaml:"epic_link"`
	EpicName string `yaml:"epic_name"`
	Sprint   string `yaml:"sprint"`
}

// OutputConfig controls where and how the report is written
type OutputConfig struct {
	ReportFile  string `yaml:"report_file"`
	TitlePrefix string `yaml:"title_prefix"`
}

// MetricsConfig holds the sprint figures. A nil PRReviewsCount may be
// filled in from GitHub.
type MetricsConfig struct {
	StoryPointsCompleted float64 `yaml:"story_points_completed"`
	PRReviewsCount       *int    `yaml:"pr_reviews_count"`
}

// GitHubConfig selects the repositories and reviewers counted for the PR
// review metric
type GitHubConfig struct {
	Repositories []string `yaml:"repositories"`
	Reviewers    []string `yaml:"reviewers"`
}

// Load reads and validates a config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates YAML config data
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every required section and field is present
func (c *Config) Validate() error {
	switch {
	case c.SprintInfo == nil:
		return missing("section sprint_info")
	case c.Jira == nil:
		return missing("section jira")
	case c.Output == nil:
		return missing("section output")
	}

	required := []struct {
		name  string
		value string
	}{
		{"sprint_info.sprint_number", c.SprintInfo.SprintNumber},
		{"sprint_info.start_date", c.SprintInfo.StartDate},
		{"sprint_info.end_date", c.SprintInfo.EndDate},
		{"sprint_info.team_name", c.SprintInfo.TeamName},
		{"jira.server_url", c.Jira.ServerURL},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return missing(field.name)
		}
	}

	if c.Jira.IssueNavigatorURL == "" && c.Jira.JQLQuery == "" {
		return missing("jira.issue_navigator_url or jira.jql_query")
	}

	return nil
}

func missing(what string) error {
	return fmt.Errorf("%w: missing required %s", ErrInvalidConfig, what)
}

// JQL returns the configured filter query, extracting it from the navigator
// URL when one is set
func (c *Config) JQL() (string, error) {
	if c.Jira.IssueNavigatorURL != "" {
		return ExtractJQL(c.Jira.IssueNavigatorURL)
	}
	if c.Jira.JQLQuery != "" {
		return c.Jira.JQLQuery, nil
	}
	return "", ErrNoJQL
}

// ReportFile returns the output path, or DefaultReportFile
func (c *Config) ReportFile() string {
	if c.Output != nil && c.Output.ReportFile != "" {
		return c.Output.ReportFile
	}
	return DefaultReportFile
}

// BrowseURL returns the URL prefix used to link issue keys
func (c *Config) BrowseURL() string {
	if c.Jira.BrowseURL != "" {
		return c.Jira.BrowseURL
	}
	return strings.TrimRight(c.Jira.ServerURL, "/") + "/browse/"
}

// Sprint converts the sprint section for the renderer
func (c *Config) Sprint() types.SprintInfo {
	return types.SprintInfo{
		Number:    c.SprintInfo.SprintNumber,
		Name:      c.SprintInfo.SprintName,
		StartDate: c.SprintInfo.StartDate,
		EndDate:   c.SprintInfo.EndDate,
		TeamName:  c.SprintInfo.TeamName,
	}
}
