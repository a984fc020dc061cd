package jira

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/pkg/types"
)

type fakeSearcher struct {
	results map[string][]types.Issue
	errs    map[string]error
	queries []string
}

func (f *fakeSearcher) SearchAndParse(ctx context.Context, jql string, maxResults int) ([]types.Issue, error) {
	f.queries = append(f.queries, jql)
	if err := f.errs[jql]; err != nil {
		return nil, err
	}
	return f.results[jql], nil
}

func TestFetch_ReconcilesEpicOutsideQuery(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]types.Issue{
			"sprint = 42": {
				{Key: "T1", IssueType: "Story", EpicLink: "E9", StatusCategory: "Done"},
			},
			"key in (E9)": {
				{Key: "E9", IssueType: "Epic", EpicName: "Platform hardening", Status: "In Progress"},
			},
		},
	}

	result, err := NewFetcher(searcher, 0, zap.NewNop()).Fetch(context.Background(), "sprint = 42")
	require.NoError(t, err)

	assert.Equal(t, []string{"sprint = 42", "key in (E9)"}, searcher.queries)
	require.Contains(t, result.Epics, "E9")
	require.Len(t, result.Epics["E9"].Children, 1)
	assert.Equal(t, "T1", result.Epics["E9"].Children[0].Key)
	assert.Equal(t, "Platform hardening", result.EpicDetails["E9"].EpicName)
	assert.Empty(t, result.Standalone)
}

func TestFetch_SkipsLookupWhenNothingToFetch(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]types.Issue{
			"sprint = 42": {
				{Key: "E1", IssueType: "Epic", EpicName: "Upgrade"},
				{Key: "T1", EpicLink: "E1"},
				{Key: "T2"},
			},
		},
	}

	result, err := NewFetcher(searcher, 0, zap.NewNop()).Fetch(context.Background(), "sprint = 42")
	require.NoError(t, err)

	assert.Equal(t, []string{"sprint = 42"}, searcher.queries)
	assert.Len(t, result.Epics, 1)
	assert.Len(t, result.Standalone, 1)
}

func TestFetch_EpicLookupFailureKeepsReport(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]types.Issue{
			"sprint = 42": {{Key: "T1", EpicLink: "E9"}},
		},
		errs: map[string]error{"key in (E9)": errors.New("boom")},
	}

	result, err := NewFetcher(searcher, 0, zap.NewNop()).Fetch(context.Background(), "sprint = 42")
	require.NoError(t, err)

	require.Contains(t, result.Epics, "E9")
	assert.NotContains(t, result.EpicDetails, "E9")
}

func TestFetch_PrimarySearchFailure(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{"sprint = 42": errors.New("boom")}}

	_, err := NewFetcher(searcher, 0, zap.NewNop()).Fetch(context.Background(), "sprint = 42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEpicKeysJQL(t *testing.T) {
	assert.Equal(t, "key in (E1,E2)", EpicKeysJQL([]string{"E1", "E2"}))
}
