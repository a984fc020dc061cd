package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNoJQL is returned when a navigator URL carries no filter query
var ErrNoJQL = errors.New("no jql found in url: expected ?jql=... or ?jqlQuery=...")

// jqlParams are the query parameters Jira uses for a filter, by preference
var jqlParams = []string{"jql", "jqlQuery"}

// ExtractJQL returns the filter query carried by a Jira issue navigator URL
func ExtractJQL(navigatorURL string) (string, error) {
	parsed, err := url.Parse(navigatorURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	params := parsed.Query()
	for _, name := range jqlParams {
		jql := params.Get(name)
		if jql == "" {
			continue
		}
		// Copied navigator URLs are sometimes encoded twice.
		if decoded, err := url.PathUnescape(jql); err == nil {
			jql = decoded
		}
		return jql, nil
	}

	return "", ErrNoJQL
}
