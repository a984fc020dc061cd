// Package report turns an epic hierarchy into a Markdown sprint report.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/clintrovert/sprintreport/pkg/types"
)

const (
	// DefaultBrowseURL is prefixed to an issue key to link it
	DefaultBrowseURL = "https://hpe.atlassian.net/browse/"

	// MaxDetailsLength caps the details column of standalone rows, in runes
	MaxDetailsLength = 200

	lineBreak = "<br>"

	closingRemarks = "Overall, the team demonstrated very good collaboration, dedication, and technical expertise, " +
		"ensuring the successful delivery of all sprint commitments and setting a strong foundation for future work."
)

// Row is one line of the epic updates table
type Row struct {
	Key            string
	Description    string
	TargetedSprint string
	Status         string
	Details        string
}

// Renderer writes sprint reports
type Renderer struct {
	browseURL   string
	titlePrefix string
}

// NewRenderer creates a renderer linking keys under browseURL. An empty
// browseURL uses DefaultBrowseURL.
func NewRenderer(browseURL, titlePrefix string) *Renderer {
	if browseURL == "" {
		browseURL = DefaultBrowseURL
	}
	if !strings.HasSuffix(browseURL, "/") {
		browseURL += "/"
	}
	return &Renderer{
		browseURL:   browseURL,
		titlePrefix: strings.TrimSpace(titlePrefix),
	}
}

// Render writes the report with the default renderer
func Render(result *types.GroupedResult, sprint types.SprintInfo, metrics types.Metrics, kudos []string) string {
	return NewRenderer("", "").Render(result, sprint, metrics, kudos)
}

// Render writes the Markdown report
func (r *Renderer) Render(result *types.GroupedResult, sprint types.SprintInfo, metrics types.Metrics, kudos []string) string {
	var sb strings.Builder

	title := fmt.Sprintf("Sprint %s Report", sprint.Number)
	if r.titlePrefix != "" {
		title = r.titlePrefix + " " + title
	}

	sb.WriteString("# " + title + "\n\n")
	sb.WriteString(fmt.Sprintf(
		"This sprint report highlights the achievements and overall progress of the %s team during Sprint %s (from %s to %s). Below are the key updates and appreciations.\n\n",
		sprint.TeamName, sprint.Number, sprint.StartDate, sprint.EndDate,
	))

	sb.WriteString("## A] Kudos/Appreciation\n\n")
	for _, kudo := range kudos {
		sb.WriteString("- " + kudo + "\n")
	}

	sb.WriteString("\n## B] Epic Updates\n\n")
	sb.WriteString("| Epic | Description | Targeted Sprint | Status | Details |\n")
	sb.WriteString("|------|-------------|----------------|--------|---------|\n")
	for _, row := range SortRows(BuildRows(result)) {
		sb.WriteString(fmt.Sprintf("| [%s](%s%s) | %s | %s | %s | %s |\n",
			row.Key, r.browseURL, row.Key,
			escapeCell(row.Description),
			escapeCell(row.TargetedSprint),
			escapeCell(row.Status),
			escapeCell(row.Details),
		))
	}

	sb.WriteString("\n## C] Overall Story Points Completed\n\n")
	sb.WriteString("**Story Points:** " + strconv.FormatFloat(metrics.StoryPointsCompleted, 'f', -1, 64) + "\n")
	sb.WriteString("\n## D] Overall PR Reviews\n\n")
	sb.WriteString("**PRs Reviewed:** " + strconv.Itoa(metrics.PRReviewsCount) + "\n")
	sb.WriteString("\n---\n\n")
	sb.WriteString(closingRemarks + "\n\n")
	sb.WriteString("Regards,")

	return sb.String()
}

// BuildRows returns one row per epic, in first-seen order, followed by one
// row per standalone issue
func BuildRows(result *types.GroupedResult) []Row {
	rows := make([]Row, 0, len(result.Epics)+len(result.Standalone))

	for _, group := range result.OrderedEpics() {
		rows = append(rows, epicRow(group, result.EpicDetails[group.EpicKey]))
	}

	for _, issue := range result.Standalone {
		status := issue.Status
		if status == "" {
			status = issue.StatusCategory
		}
		rows = append(rows, Row{
			Key:         issue.Key,
			Description: issue.Summary,
			Status:      status,
			Details:     truncate(issue.Summary, MaxDetailsLength),
		})
	}

	return rows
}

// epicRow builds the row for an epic. detail is the epic's own issue,
// which is the zero value when it was never fetched.
func epicRow(group *types.EpicGroup, detail types.Issue) Row {
	name := firstNonEmpty(group.EpicName, detail.EpicName, detail.Summary)

	status := detail.Status
	if status == "" {
		status = DetermineEpicStatus(group)
	}

	named := *group
	named.EpicName = name

	description := name
	if description == "" {
		description = "Epic " + group.EpicKey
	}

	return Row{
		Key:            group.EpicKey,
		Description:    description,
		TargetedSprint: detail.Sprint,
		Status:         status,
		Details:        GenerateEpicSummary(&named),
	}
}

// SortRows orders rows Done first, then In Progress, then everything else,
// keeping the original order within each tier
func SortRows(rows []Row) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return statusPriority(sorted[i].Status) < statusPriority(sorted[j].Status)
	})
	return sorted
}

func statusPriority(status string) int {
	switch strings.ToLower(status) {
	case "done":
		return 0
	case "in progress":
		return 1
	default:
		return 2
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// escapeCell keeps free text from breaking the table layout
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
