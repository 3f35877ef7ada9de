// ============================================================================
// internal/ingest/filename.go
// Course ID resolution from uploaded file names
// ============================================================================

package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// CourseRef is the result of resolving an uploaded file's name.
type CourseRef struct {
	Branch   string `json:"branch"`   // lowercase 2-4 letter branch code
	Number   string `json:"number"`   // numeric course suffix
	CourseID string `json:"courseId"` // canonical "noc25-<branch><number>"
}

// filenamePattern is one layer of the resolution cascade: a compiled pattern
// plus an extractor that pulls (branch, number) out of its submatches.
type filenamePattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) (branch, number string)
}

// CourseResolver resolves course IDs from filenames using a fixed, ordered
// list of patterns from most to least specific. The first pattern that
// matches wins; later, looser patterns are never tried once an earlier one
// succeeds. Filenames come from humans and export tools with no enforced
// convention, so a deterministic fallback order beats one brittle pattern.
type CourseResolver struct {
	patterns []filenamePattern
}

// NewCourseResolver builds a resolver for the given branch-code set.
// An empty set falls back to shared.DefaultBranchCodes.
func NewCourseResolver(branchCodes []string) *CourseResolver {
	if len(branchCodes) == 0 {
		branchCodes = shared.DefaultBranchCodes
	}

	// Quote and join the codes into an alternation, longest first so that
	// "ece" is tried before "ce" and "ee".
	quoted := make([]string, len(branchCodes))
	copy(quoted, branchCodes)
	sortByLengthDesc(quoted)
	for i, c := range quoted {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(c))
	}
	branchAlt := strings.Join(quoted, "|")

	firstTwo := func(m []string) (string, string) { return m[1], m[2] }

	return &CourseResolver{
		patterns: []filenamePattern{
			{
				// 1. Term prefix + known branch + number: "noc25_cs52", "noc25-cs-52"
				name:    "term-branch-number",
				re:      regexp.MustCompile(`(?i)noc\d+[_\-. ]*(` + branchAlt + `)[_\-. ]*(\d+)`),
				extract: firstTwo,
			},
			{
				// 2. Known branch + number without requiring the term prefix,
				//    separated from surrounding text: "results_cs52_final"
				name:    "branch-number-delimited",
				re:      regexp.MustCompile(`(?i)(?:^|[_\-. ])(` + branchAlt + `)[_\-. ]?(\d+)`),
				extract: firstTwo,
			},
			{
				// 3. Known branch + number anywhere in the name: "weekcs52"
				name:    "branch-number",
				re:      regexp.MustCompile(`(?i)(` + branchAlt + `)[_\-. ]?(\d+)`),
				extract: firstTwo,
			},
			{
				// 4. Last resort: any letter run followed by digits
				name:    "generic-letters-digits",
				re:      regexp.MustCompile(`(?i)([a-z]{2,4})[_\-. ]?(\d+)`),
				extract: firstTwo,
			},
		},
	}
}

// Resolve derives the canonical course ID from an uploaded file's display
// name. Failing every pattern returns ErrUnresolvableFilename with the
// rejected filename attached for diagnostics.
func (r *CourseResolver) Resolve(filename string) (*CourseRef, error) {
	name := strings.TrimSpace(filename)

	// The extension never contributes to the course ID and its digits
	// (e.g. ".xlsx" oddities) must not confuse the generic pattern.
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	for _, p := range r.patterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		branch, number := p.extract(m)
		branch = strings.ToLower(branch)
		ref := &CourseRef{
			Branch:   branch,
			Number:   number,
			CourseID: fmt.Sprintf("%s-%s%s", shared.CurrentTerm, branch, number),
		}
		return ref, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnresolvableFilename, filename)
}

// sortByLengthDesc orders strings longest first (stable for equal lengths).
func sortByLengthDesc(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && len(s[j]) > len(s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
