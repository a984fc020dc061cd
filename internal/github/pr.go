package github

import (
	"strings"
)

// ReviewQuery builds a search query for pull requests reviewed by reviewer
// in any of repos and updated within the given date range
func ReviewQuery(reviewer string, repos []string, start, end string) string {
	parts := []string{"is:pr", "reviewed-by:" + reviewer}
	for _, repo := range repos {
		parts = append(parts, "repo:"+strings.TrimSpace(repo))
	}
	if dates := dateRange(start, end); dates != "" {
		parts = append(parts, "updated:"+dates)
	}
	return strings.Join(parts, " ")
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + ".." + end
	case start != "":
		return ">=" + start
	case end != "":
		return "<=" + end
	}
	return ""
}
