package jira

import (
	"github.com/clintrovert/sprintreport/pkg/types"
)

// Default Jira Cloud custom field IDs
const (
	DefaultEpicLinkField = "customfield_10014"
	DefaultEpicNameField = "customfield_10011"
	DefaultSprintField   = "customfield_10020"
)

// RawIssue is an issue as returned by the search endpoint. Fields are kept
// untyped so that unexpected shapes never fail decoding.
type RawIssue struct {
	ID     string                 `json:"id"`
	Key    string                 `json:"key"`
	Fields map[string]interface{} `json:"fields"`
}

// FieldIDs names the custom fields that carry epic and sprint data
type FieldIDs struct {
	EpicLink string
	EpicName string
	Sprint   string
}

// DefaultFieldIDs returns the Jira Cloud defaults
func DefaultFieldIDs() FieldIDs {
	return FieldIDs{
		EpicLink: DefaultEpicLinkField,
		EpicName: DefaultEpicNameField,
		Sprint:   DefaultSprintField,
	}
}

func (f FieldIDs) withDefaults() FieldIDs {
	d := DefaultFieldIDs()
	if f.EpicLink == "" {
		f.EpicLink = d.EpicLink
	}
	if f.EpicName == "" {
		f.EpicName = d.EpicName
	}
	if f.Sprint == "" {
		f.Sprint = d.Sprint
	}
	return f
}

// ParseIssue normalizes a raw issue using the default field IDs
func ParseIssue(raw RawIssue) types.Issue {
	return DefaultFieldIDs().Parse(raw)
}

// Parse normalizes a raw issue. It never fails: any missing or mistyped
// field becomes the empty string.
func (f FieldIDs) Parse(raw RawIssue) types.Issue {
	f = f.withDefaults()
	fields := raw.Fields

	parent := mapAt(fields, "parent")
	epicLink := ""
	if parent != nil && stringAt(parent, "fields", "issuetype", "name") == types.IssueTypeEpic {
		epicLink = stringAt(parent, "key")
	}
	if epicLink == "" {
		epicLink = stringAt(fields, f.EpicLink)
	}

	return types.Issue{
		Key:            raw.Key,
		Summary:        stringAt(fields, "summary"),
		Description:    stringAt(fields, "description"),
		Status:         stringAt(fields, "status", "name"),
		StatusCategory: stringAt(fields, "status", "statusCategory", "name"),
		IssueType:      stringAt(fields, "issuetype", "name"),
		EpicLink:       epicLink,
		EpicName:       stringAt(fields, f.EpicName),
		ParentKey:      stringAt(parent, "key"),
		ParentSummary:  stringAt(parent, "fields", "summary"),
		Sprint:         firstSprintName(fields[f.Sprint]),
		Assignee:       stringAt(fields, "assignee", "displayName"),
		Created:        stringAt(fields, "created"),
		Updated:        stringAt(fields, "updated"),
	}
}

// firstSprintName returns the name of the first sprint in a sprint field
func firstSprintName(v interface{}) string {
	sprints, ok := v.([]interface{})
	if !ok || len(sprints) == 0 {
		return ""
	}
	switch first := sprints[0].(type) {
	case map[string]interface{}:
		return stringAt(first, "name")
	case string:
		return first
	}
	return ""
}

// mapAt walks path through nested objects and returns the object found there
func mapAt(m map[string]interface{}, path ...string) map[string]interface{} {
	cur := m
	for _, key := range path {
		if cur == nil {
			return nil
		}
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// stringAt walks path through nested objects and returns the string found there
func stringAt(m map[string]interface{}, path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := mapAt(m, path[:len(path)-1]...)
	if parent == nil {
		return ""
	}
	s, _ := parent[path[len(path)-1]].(string)
	return s
}
