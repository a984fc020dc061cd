package hierarchy

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/pkg/types"
)

// EpicLookup fetches epics that a query referenced but did not return
type EpicLookup interface {
	LookupEpics(ctx context.Context, keys []string) ([]types.Issue, error)
}

// Builder groups query results and reconciles them against the query set
type Builder struct {
	lookup EpicLookup
	logger *zap.Logger
}

// NewBuilder creates a new hierarchy builder. lookup may be nil, in which
// case epics outside the query are shown without fetched details.
func NewBuilder(lookup EpicLookup, logger *zap.Logger) *Builder {
	return &Builder{
		lookup: lookup,
		logger: logger,
	}
}

// Build groups issues by epic, fetches details for epics that are only
// referenced by children, and trims the grouping to the query's issues.
func (b *Builder) Build(ctx context.Context, issues []types.Issue) *types.GroupedResult {
	queryKeys := types.Keys(issues)
	epicsInQuery := EpicsInQuery(issues)
	toFetch := EpicKeysToFetch(issues)

	b.logger.Info("reconciling epics",
		zap.Int("issues", len(queryKeys)),
		zap.Int("epics_in_query", len(epicsInQuery)),
		zap.Int("epics_to_fetch", len(toFetch)),
	)

	var fetched []types.Issue
	if len(toFetch) > 0 && b.lookup != nil {
		var err error
		fetched, err = b.lookup.LookupEpics(ctx, toFetch)
		if err != nil {
			b.logger.Warn("failed to fetch epic details, continuing without them",
				zap.Strings("epics", toFetch),
				zap.Error(err),
			)
			fetched = nil
		}
	}

	result := Filter(GroupByParent(issues), queryKeys, epicsInQuery)
	result.EpicDetails = EpicDetails(issues, fetched)

	b.logger.Info("built epic hierarchy",
		zap.Int("epics", len(result.Epics)),
		zap.Int("standalone", len(result.Standalone)),
	)

	return result
}

// EpicsInQuery returns the keys of the epics present in issues
func EpicsInQuery(issues []types.Issue) map[string]bool {
	epics := make(map[string]bool)
	for _, issue := range issues {
		if issue.IsEpic() {
			epics[issue.Key] = true
		}
	}
	return epics
}

// EpicKeysToFetch returns, sorted, the epic keys referenced by issues that
// are not themselves epics in issues
func EpicKeysToFetch(issues []types.Issue) []string {
	epicsInQuery := EpicsInQuery(issues)
	seen := make(map[string]bool)
	keys := []string{}
	for _, issue := range issues {
		link := issue.EpicLink
		if link == "" || epicsInQuery[link] || seen[link] {
			continue
		}
		seen[link] = true
		keys = append(keys, link)
	}
	sort.Strings(keys)
	return keys
}

// EpicDetails indexes epic records by key. Epics from the query win over
// separately fetched ones.
func EpicDetails(issues, fetched []types.Issue) map[string]types.Issue {
	details := make(map[string]types.Issue)
	for _, epic := range fetched {
		if epic.Key != "" {
			details[epic.Key] = epic
		}
	}
	for _, issue := range issues {
		if issue.IsEpic() {
			details[issue.Key] = issue
		}
	}
	return details
}

// Filter keeps only the epics and issues that belong to the query set.
//
// An epic survives if it was in the query or still has a child from the
// query; its children are trimmed to query issues. Standalone issues are
// trimmed the same way. Filter does not modify grouped.
func Filter(grouped *types.GroupedResult, queryKeys, epicsInQuery map[string]bool) *types.GroupedResult {
	result := types.NewGroupedResult()

	for _, group := range grouped.OrderedEpics() {
		children := []types.Issue{}
		for _, child := range group.Children {
			if queryKeys[child.Key] {
				children = append(children, child)
			}
		}

		if len(children) == 0 && !epicsInQuery[group.EpicKey] {
			continue
		}

		result.Epics[group.EpicKey] = &types.EpicGroup{
			EpicKey:  group.EpicKey,
			EpicName: group.EpicName,
			Children: children,
		}
		result.EpicOrder = append(result.EpicOrder, group.EpicKey)
	}

	for _, issue := range grouped.Standalone {
		if queryKeys[issue.Key] {
			result.Standalone = append(result.Standalone, issue)
		}
	}

	for key, detail := range grouped.EpicDetails {
		result.EpicDetails[key] = detail
	}

	return result
}
