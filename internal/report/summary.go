package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clintrovert/sprintreport/pkg/types"
)

// Epic statuses derived from children
const (
	StatusDone       = "Done"
	StatusInProgress = "In Progress"
	StatusUnknown    = "Unknown"
)

var (
	versionRangePattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)\s*-\s*(\d+\.\d+(?:\.\d+)?)`)
	serviceEnvPattern   = regexp.MustCompile(`\(([^)]+)\)`)
	environmentPattern  = regexp.MustCompile(`\[([^\]]+)\]`)

	titleCaser = cases.Title(language.Und)
)

// DetermineEpicStatus derives an epic's status from its children
func DetermineEpicStatus(group *types.EpicGroup) string {
	if len(group.Children) == 0 {
		return StatusUnknown
	}
	if len(group.DoneChildren()) == len(group.Children) {
		return StatusDone
	}
	return StatusInProgress
}

// SummaryStrategy writes the details text for one kind of epic
type SummaryStrategy struct {
	Name    string
	Matches func(lowerName string) bool
	Summary func(group *types.EpicGroup) string
}

// Strategies are tried in order; the last one matches every epic.
var Strategies = []SummaryStrategy{
	{
		Name: "rollout",
		Matches: func(name string) bool {
			return strings.Contains(name, "istio") && strings.Contains(name, "rollout")
		},
		Summary: rolloutSummary,
	},
	{
		Name: "migration",
		Matches: func(name string) bool {
			return strings.Contains(name, "argocd")
		},
		Summary: migrationSummary,
	},
	{
		Name:    "generic",
		Matches: func(string) bool { return true },
		Summary: genericSummary,
	},
}

// SelectStrategy returns the first strategy whose matcher accepts the
// epic's lowercased name
func SelectStrategy(group *types.EpicGroup) SummaryStrategy {
	name := strings.ToLower(group.EpicName)
	for _, s := range Strategies {
		if s.Matches(name) {
			return s
		}
	}
	return Strategies[len(Strategies)-1]
}

// GenerateEpicSummary writes a short description of the work done under an epic
func GenerateEpicSummary(group *types.EpicGroup) string {
	return SelectStrategy(group).Summary(group)
}

type serviceEnv struct {
	service string
	env     string
}

func (s serviceEnv) String() string {
	if s.env == "" {
		return s.service
	}
	return s.service + " " + s.env
}

// rolloutSummary tallies completed "(service env)" rollouts per cluster
func rolloutSummary(group *types.EpicGroup) string {
	name := strings.ToLower(group.EpicName)
	done := group.DoneChildren()

	version := "upgrade"
	if m := versionRangePattern.FindStringSubmatch(name); m != nil {
		version = m[1] + " to " + m[2]
	}

	counts := make(map[serviceEnv]int)
	for _, child := range done {
		m := serviceEnvPattern.FindStringSubmatch(child.Summary)
		if m == nil {
			continue
		}
		token := strings.TrimSpace(m[1])
		key := serviceEnv{service: token}
		if i := strings.LastIndex(token, " "); i >= 0 {
			key = serviceEnv{service: token[:i], env: token[i+1:]}
		}
		counts[key]++
	}

	if len(counts) == 0 {
		return fmt.Sprintf("Completed Istio %s rollout across %d clusters.", version, len(done))
	}

	keys := make([]serviceEnv, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s - %d %s", k, counts[k], pluralize(counts[k], "cluster", "clusters")))
	}

	return fmt.Sprintf("Completed Istio %s rollout:%s%s", version, lineBreak, strings.Join(lines, lineBreak))
}

// migrationSummary lists the environments a component was migrated to
func migrationSummary(group *types.EpicGroup) string {
	name := strings.ToLower(group.EpicName)

	component := "component"
	if i := strings.LastIndex(name, "-"); i >= 0 {
		component = strings.TrimSpace(name[i+1:])
	}
	component = titleCaser.String(component)

	seen := make(map[string]bool)
	envs := []string{}
	for _, child := range group.DoneChildren() {
		m := environmentPattern.FindStringSubmatch(child.Summary)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		envs = append(envs, m[1])
	}
	sort.Strings(envs)

	switch len(envs) {
	case 0:
		return fmt.Sprintf("Completed ArgoCD migration for %s.", component)
	case 1:
		return fmt.Sprintf("Migrated %s to ArgoCD in %s.", component, envs[0])
	default:
		return fmt.Sprintf("Migrated %s to ArgoCD across %s environments.", component, strings.Join(envs, ", "))
	}
}

// genericSummary reports completion counts
func genericSummary(group *types.EpicGroup) string {
	total := len(group.Children)
	done := len(group.DoneChildren())

	switch {
	case total > 0 && done == total:
		return fmt.Sprintf("Completed all %d related tasks.", total)
	case done > 0:
		return fmt.Sprintf("Completed %d of %d tasks.", done, total)
	default:
		return fmt.Sprintf("%d tasks tracked.", total)
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
