package types

import "strings"

// Issue types and status categories as reported by Jira
const (
	IssueTypeEpic      = "Epic"
	StatusCategoryDone = "done"
)

// Issue is a normalized Jira issue. Every field defaults to the empty string.
type Issue struct {
	Key            string
	Summary        string
	Description    string
	Status         string
	StatusCategory string
	IssueType      string
	EpicLink       string
	EpicName       string
	ParentKey      string
	ParentSummary  string
	Sprint         string
	Assignee       string
	Created        string
	Updated        string
}

// IsEpic reports whether the issue itself is an epic
func (i Issue) IsEpic() bool {
	return i.IssueType == IssueTypeEpic
}

// IsDone reports whether the issue's status category is done
func (i Issue) IsDone() bool {
	return strings.EqualFold(i.StatusCategory, StatusCategoryDone)
}

// EpicGroup is an epic and the issues linked to it, in discovery order
type EpicGroup struct {
	EpicKey  string
	EpicName string
	Children []Issue
}

// DoneChildren returns the children whose status category is done
func (g *EpicGroup) DoneChildren() []Issue {
	done := make([]Issue, 0, len(g.Children))
	for _, child := range g.Children {
		if child.IsDone() {
			done = append(done, child)
		}
	}
	return done
}

// GroupedResult is the epic hierarchy built from a query result.
// EpicOrder holds the keys of Epics in the order they were first seen.
type GroupedResult struct {
	Epics       map[string]*EpicGroup
	EpicOrder   []string
	Standalone  []Issue
	EpicDetails map[string]Issue
}

// NewGroupedResult creates an empty result
func NewGroupedResult() *GroupedResult {
	return &GroupedResult{
		Epics:       make(map[string]*EpicGroup),
		EpicOrder:   []string{},
		Standalone:  []Issue{},
		EpicDetails: make(map[string]Issue),
	}
}

// OrderedEpics returns the epic groups in first-seen order
func (r *GroupedResult) OrderedEpics() []*EpicGroup {
	groups := make([]*EpicGroup, 0, len(r.EpicOrder))
	for _, key := range r.EpicOrder {
		if group, ok := r.Epics[key]; ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// Keys returns the set of issue keys in issues
func Keys(issues []Issue) map[string]bool {
	keys := make(map[string]bool, len(issues))
	for _, issue := range issues {
		keys[issue.Key] = true
	}
	return keys
}
