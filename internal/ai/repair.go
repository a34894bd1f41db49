package ai

import (
	"regexp"
	"strings"
)

// Model responses occasionally come back with tab runs inside string
// values or a string literal truncated by trailing backslashes. These
// repairs run in order before the response is parsed as JSON.
var repairSteps = []struct {
	name    string
	pattern *regexp.Regexp
	replace string
}{
	{"collapse escaped tabs", regexp.MustCompile(`\\t+`), " "},
	{"collapse literal tabs", regexp.MustCompile(`\t+`), " "},
	{"collapse whitespace", regexp.MustCompile(`\s+`), " "},
	{"close truncated string", regexp.MustCompile(`"([^"]*?)\\+$`), `"$1"`},
}

// RepairResponse normalizes common malformed-JSON artifacts in a model
// response. The result is not guaranteed to be valid JSON; callers
// still validate it.
func RepairResponse(response string) string {
	repaired := response
	for _, step := range repairSteps {
		repaired = step.pattern.ReplaceAllString(repaired, step.replace)
	}
	return strings.TrimSpace(repaired)
}
