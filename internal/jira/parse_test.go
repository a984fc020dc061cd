package jira

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawIssue(t *testing.T, body string) RawIssue {
	t.Helper()
	var raw RawIssue
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParseIssue_FullRecord(t *testing.T) {
	raw := rawIssue(t, `{
		"key": "OPS-12",
		"fields": {
			"summary": "Upgrade ingress (gateway prod-east)",
			"description": "plain text",
			"status": {"name": "Closed", "statusCategory": {"name": "Done"}},
			"issuetype": {"name": "Story"},
			"parent": {"key": "OPS-1", "fields": {"summary": "Istio rollout", "issuetype": {"name": "Epic"}}},
			"customfield_10014": "OPS-99",
			"customfield_10020": [{"name": "Sprint 42"}, {"name": "Sprint 43"}],
			"assignee": {"displayName": "Sam Lee"},
			"created": "2025-01-02T10:00:00.000+0000",
			"updated": "2025-01-03T10:00:00.000+0000"
		}
	}`)

	issue := ParseIssue(raw)

	assert.Equal(t, "OPS-12", issue.Key)
	assert.Equal(t, "Upgrade ingress (gateway prod-east)", issue.Summary)
	assert.Equal(t, "plain text", issue.Description)
	assert.Equal(t, "Closed", issue.Status)
	assert.Equal(t, "Done", issue.StatusCategory)
	assert.Equal(t, "Story", issue.IssueType)
	assert.Equal(t, "OPS-1", issue.EpicLink, "an epic parent wins over the link field")
	assert.Equal(t, "OPS-1", issue.ParentKey)
	assert.Equal(t, "Istio rollout", issue.ParentSummary)
	assert.Equal(t, "Sprint 42", issue.Sprint)
	assert.Equal(t, "Sam Lee", issue.Assignee)
	assert.Equal(t, "2025-01-02T10:00:00.000+0000", issue.Created)
	assert.Equal(t, "2025-01-03T10:00:00.000+0000", issue.Updated)
	assert.True(t, issue.IsDone())
}

func TestParseIssue_NonEpicParentFallsBackToLinkField(t *testing.T) {
	raw := rawIssue(t, `{
		"key": "OPS-13",
		"fields": {
			"issuetype": {"name": "Sub-task"},
			"parent": {"key": "OPS-12", "fields": {"issuetype": {"name": "Story"}}},
			"customfield_10014": "OPS-7"
		}
	}`)

	issue := ParseIssue(raw)

	assert.Equal(t, "OPS-7", issue.EpicLink)
	assert.Equal(t, "OPS-12", issue.ParentKey)
}

func TestParseIssue_NoEpicAnywhere(t *testing.T) {
	raw := rawIssue(t, `{"key": "OPS-14", "fields": {"customfield_10014": null}}`)
	assert.Empty(t, ParseIssue(raw).EpicLink)
}

func TestParseIssue_EpicName(t *testing.T) {
	raw := rawIssue(t, `{
		"key": "OPS-1",
		"fields": {"issuetype": {"name": "Epic"}, "summary": "Rollout", "customfield_10011": "Istio 1.20 - 1.21 Rollout"}
	}`)

	issue := ParseIssue(raw)

	assert.True(t, issue.IsEpic())
	assert.Equal(t, "Istio 1.20 - 1.21 Rollout", issue.EpicName)
}

func TestParseIssue_MissingAndMistypedFieldsDegrade(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no fields", `{"key": "X-1"}`},
		{"null fields", `{"key": "X-1", "fields": null}`},
		{"status is a string", `{"key": "X-1", "fields": {"status": "Open"}}`},
		{"status without category", `{"key": "X-1", "fields": {"status": {"name": "Open"}}}`},
		{"category not an object", `{"key": "X-1", "fields": {"status": {"name": "Open", "statusCategory": 3}}}`},
		{"parent is a string", `{"key": "X-1", "fields": {"parent": "X-0"}}`},
		{"sprint not a list", `{"key": "X-1", "fields": {"customfield_10020": {"name": "Sprint 1"}}}`},
		{"sprint empty list", `{"key": "X-1", "fields": {"customfield_10020": []}}`},
		{"sprint list of numbers", `{"key": "X-1", "fields": {"customfield_10020": [7]}}`},
		{"assignee null", `{"key": "X-1", "fields": {"assignee": null}}`},
		{"summary is a number", `{"key": "X-1", "fields": {"summary": 12}}`},
		{"description is a document", `{"key": "X-1", "fields": {"description": {"type": "doc", "content": []}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := ParseIssue(rawIssue(t, tt.body))

			assert.Equal(t, "X-1", issue.Key)
			assert.Empty(t, issue.StatusCategory)
			assert.Empty(t, issue.Sprint)
			assert.Empty(t, issue.EpicLink)
			assert.Empty(t, issue.Assignee)
			assert.Empty(t, issue.Summary)
			assert.Empty(t, issue.Description)
		})
	}
}

func TestParseIssue_SprintAsString(t *testing.T) {
	raw := rawIssue(t, `{"key": "X-1", "fields": {"customfield_10020": ["Sprint 9"]}}`)
	assert.Equal(t, "Sprint 9", ParseIssue(raw).Sprint)
}

func TestFieldIDs_CustomFields(t *testing.T) {
	fields := FieldIDs{EpicLink: "customfield_1", Sprint: "customfield_2"}
	raw := rawIssue(t, `{
		"key": "X-1",
		"fields": {
			"customfield_1": "X-0",
			"customfield_2": [{"name": "Sprint 3"}],
			"customfield_10011": "Default epic name field"
		}
	}`)

	issue := fields.Parse(raw)

	assert.Equal(t, "X-0", issue.EpicLink)
	assert.Equal(t, "Sprint 3", issue.Sprint)
	assert.Equal(t, "Default epic name field", issue.EpicName)
}
