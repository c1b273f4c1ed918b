package doctor

import "github.com/mhoffman/clawstrap/internal/paths"

// Check is a single precondition check.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check.
	Category() string

	// Run executes the check.
	Run() *CheckResult
}

// RunAll executes every check and returns the results in order.
func RunAll(checks []Check) []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		if r := c.Run(); r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// HasErrors reports whether any result is at error severity.
// The installer must not mutate anything when this returns true.
func HasErrors(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == SeverityError {
			return true
		}
	}
	return false
}

// DefaultChecks returns the standard precondition checks for an install
// targeting the given home directory.
func DefaultChecks(home string) []Check {
	dir := ""
	if home != "" {
		dir = paths.AssistantDir(home)
	}
	return []Check{
		NewHomeCheck(home),
		NewTargetDirCheck(dir),
		NewSettingsCheck(dir),
		NewRuntimeCheck("claude", "the assistant CLI; install it to use the provisioned configuration"),
		NewRuntimeCheck("node", "required by the configured MCP servers"),
		NewRuntimeCheck("npx", "required to launch the configured MCP servers"),
	}
}
