package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintrovert/sprintreport/internal/config"
)

func TestResolveJQL(t *testing.T) {
	cfg := &config.Config{Jira: &config.JiraConfig{JQLQuery: "project = OPS"}}

	jql, err := resolveJQL(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "project = OPS", jql)

	jql, err = resolveJQL(cfg, "https://example.atlassian.net/issues/?jql=sprint%20%3D%2042")
	require.NoError(t, err)
	assert.Equal(t, "sprint = 42", jql)

	_, err = resolveJQL(cfg, "https://example.atlassian.net/issues/?filter=1")
	assert.ErrorIs(t, err, config.ErrNoJQL)
}
