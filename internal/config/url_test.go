package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJQL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "jql parameter",
			url:  "https://example.atlassian.net/issues/?jql=project%20%3D%20OPS%20ORDER%20BY%20created",
			want: "project = OPS ORDER BY created",
		},
		{
			name: "jqlQuery parameter",
			url:  "https://example.atlassian.net/secure/IssueNavigator.jspa?reset=true&jqlQuery=sprint+in+openSprints()",
			want: "sprint in openSprints()",
		},
		{
			name: "jql preferred over jqlQuery",
			url:  "https://example.atlassian.net/issues/?jqlQuery=b&jql=a",
			want: "a",
		},
		{
			name: "double encoded",
			url:  "https://example.atlassian.net/issues/?jql=project%2520%253D%2520OPS",
			want: "project = OPS",
		},
		{
			name: "quoted values",
			url:  "https://example.atlassian.net/issues/?jql=sprint%20%3D%20%22Sprint%2042%22",
			want: `sprint = "Sprint 42"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jql, err := ExtractJQL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, jql)
		})
	}
}

func TestExtractJQL_Missing(t *testing.T) {
	for _, u := range []string{
		"https://example.atlassian.net/issues/?filter=10000",
		"https://example.atlassian.net/issues/",
		"https://example.atlassian.net/issues/?jql=",
	} {
		_, err := ExtractJQL(u)
		assert.ErrorIs(t, err, ErrNoJQL, u)
	}
}

func TestExtractJQL_Unparseable(t *testing.T) {
	_, err := ExtractJQL("://bad url")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJQL)
}
