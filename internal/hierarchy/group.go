// Package hierarchy groups issues under their epics and reconciles the
// grouping against the set of issues a query actually returned.
package hierarchy

import (
	"github.com/clintrovert/sprintreport/pkg/types"
)

// GroupByParent groups issues under their epics in a single pass.
//
// An epic creates (or resets) its own group and is never standalone. An
// issue with an epic link is appended to that epic's group, which is created
// with an empty name if the epic has not been seen yet. Everything else is
// standalone. Children keep their input order.
func GroupByParent(issues []types.Issue) *types.GroupedResult {
	result := types.NewGroupedResult()

	for _, issue := range issues {
		if issue.IsEpic() {
			name := issue.EpicName
			if name == "" {
				name = issue.Summary
			}
			ensureGroup(result, issue.Key)
			result.Epics[issue.Key] = &types.EpicGroup{
				EpicKey:  issue.Key,
				EpicName: name,
				Children: []types.Issue{},
			}
			continue
		}

		if issue.EpicLink != "" {
			group := ensureGroup(result, issue.EpicLink)
			group.Children = append(group.Children, issue)
			continue
		}

		result.Standalone = append(result.Standalone, issue)
	}

	return result
}

// ensureGroup returns the group for key, creating a placeholder if needed
func ensureGroup(result *types.GroupedResult, key string) *types.EpicGroup {
	if group, ok := result.Epics[key]; ok {
		return group
	}
	group := &types.EpicGroup{
		EpicKey:  key,
		Children: []types.Issue{},
	}
	result.Epics[key] = group
	result.EpicOrder = append(result.EpicOrder, key)
	return group
}
