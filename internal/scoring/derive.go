package scoring

import "github.com/spiffcs/scout/internal/model"

// ComplexSizeKB is the repository size above which setup counts as heavier.
const ComplexSizeKB = 10000

// Response time estimates
const (
	ResponseFast    = "Within 1-3 days"
	ResponseWeek    = "Within 1 week"
	ResponseSlow    = "Within 2-4 weeks"
	ResponseUnknown = "Slow or no response"
)

// defaultFrameworks maps a primary language to frameworks commonly used with
// it. Only the first two entries are reported.
func defaultFrameworks() map[string][]string {
	return map[string][]string{
		"JavaScript": {"Node.js", "React", "Vue.js", "Angular"},
		"Python":     {"Django", "Flask", "FastAPI", "Pandas"},
		"Java":       {"Spring", "Maven", "Gradle"},
		"C#":         {".NET", "ASP.NET"},
		"Go":         {"Gin", "Echo"},
		"Rust":       {"Cargo", "Actix"},
		"TypeScript": {"Angular", "React", "Node.js"},
	}
}

// defaultHeavyLanguages are ecosystems that tend to pull in many dependencies.
func defaultHeavyLanguages() map[string]bool {
	return map[string]bool{
		"JavaScript": true,
		"Python":     true,
		"Java":       true,
	}
}

// TechStack returns the primary language followed by up to two typical
// frameworks for it. The frameworks are a lookup, not dependency inspection.
func (h *Heuristics) TechStack(repo model.RepositoryMeta) []string {
	var stack []string
	if repo.Language == "" {
		return stack
	}
	stack = append(stack, repo.Language)

	frameworks := h.frameworks[repo.Language]
	if len(frameworks) > 2 {
		frameworks = frameworks[:2]
	}
	return append(stack, frameworks...)
}

// AssessSetupComplexity counts complexity indicators: a stack of more than
// three entries, a repository over ComplexSizeKB and a heavy ecosystem.
func (h *Heuristics) AssessSetupComplexity(repo model.RepositoryMeta, stack []string) model.SetupComplexity {
	indicators := 0
	if len(stack) > 3 {
		indicators++
	}
	if repo.Size > ComplexSizeKB {
		indicators++
	}
	if h.heavyLanguages[repo.Language] {
		indicators++
	}

	switch {
	case indicators == 0:
		return model.ComplexitySimple
	case indicators <= 2:
		return model.ComplexityModerate
	default:
		return model.ComplexityComplex
	}
}

// EstimateResponseTime guesses maintainer response time from recent commits.
func EstimateResponseTime(commits int) string {
	switch {
	case commits > 20:
		return ResponseFast
	case commits > 10:
		return ResponseWeek
	case commits > 0:
		return ResponseSlow
	default:
		return ResponseUnknown
	}
}

// AssessMaintainerActivity buckets recent commit volume.
func AssessMaintainerActivity(commits int) model.MaintainerActivity {
	switch {
	case commits > 30:
		return model.ActivityVeryActive
	case commits > 15:
		return model.ActivityActive
	case commits > 5:
		return model.ActivityModeratelyActive
	case commits > 0:
		return model.ActivityLow
	default:
		return model.ActivityInactive
	}
}
