package lens

import (
	"regexp"
	"sort"
)

// Seed extraction from free text: issues, CI logs, tickets. These are
// the same loose captures the lens matcher expects, so a file fragment
// or bare function name both work as seeds.
var (
	sourcePathRe = regexp.MustCompile(`[\w./-]+\.py`)
	callSiteRe   = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(`)
	fileLineRe   = regexp.MustCompile(`([A-Za-z0-9_./-]+\.py):\d+`)
	tracebackRe  = regexp.MustCompile(`(?m)in\s+([A-Za-z_][A-Za-z0-9_]*)\s*$`)
)

// SeedsFromIssue extracts candidate seeds from issue text: source file
// mentions and anything that looks like a call.
func SeedsFromIssue(text string) []string {
	seeds := sourcePathRe.FindAllString(text, -1)
	for _, m := range callSiteRe.FindAllStringSubmatch(text, -1) {
		seeds = append(seeds, m[1])
	}
	return dedupeSorted(seeds)
}

// SeedsFromTestLog extracts seeds from pytest-style failure logs:
// "file.py:123" locations and trailing "in func" traceback lines.
func SeedsFromTestLog(text string) []string {
	var seeds []string
	for _, m := range fileLineRe.FindAllStringSubmatch(text, -1) {
		seeds = append(seeds, m[1])
	}
	for _, m := range tracebackRe.FindAllStringSubmatch(text, -1) {
		seeds = append(seeds, m[1])
	}
	return dedupeSorted(seeds)
}

// SeedsFromTicket extracts seeds from ticket text: file:line mentions
// and call-shaped names.
func SeedsFromTicket(text string) []string {
	var seeds []string
	for _, m := range fileLineRe.FindAllStringSubmatch(text, -1) {
		seeds = append(seeds, m[1])
	}
	for _, m := range callSiteRe.FindAllStringSubmatch(text, -1) {
		seeds = append(seeds, m[1])
	}
	return dedupeSorted(seeds)
}

func dedupeSorted(seeds []string) []string {
	seen := make(map[string]bool, len(seeds))
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
