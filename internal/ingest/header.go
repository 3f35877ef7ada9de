// ============================================================================
// internal/ingest/header.go
// Spreadsheet header normalization to canonical week labels
// ============================================================================

package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ScoreColumn pairs a canonical week label with the column it came from.
// Two headers with the same week number collapse to one canonical label but
// keep their own source index; the normalizer does not deduplicate them
// (rightmost column wins during row extraction, see reconcile.go).
type ScoreColumn struct {
	Week        string // canonical "Week {n} Assignment"
	SourceIndex int    // column index in the uploaded file
}

// IdentityColumns locates the email and roll-number columns in a header row.
// An index of -1 means the column is absent.
type IdentityColumns struct {
	Email int
	Roll  int
}

// weekHeaderRe matches any header that denotes a week-assignment score
// column: "week" followed by an optionally zero-padded number, optionally
// followed by "assignment". Matching is case-insensitive and tolerant of
// separator noise ("Week 01 Assignment", "week1", "WEEK-02_assignment").
var weekHeaderRe = regexp.MustCompile(`(?i)week[\s_\-]*0*(\d+)`)

// CanonicalWeekLabel renders the canonical label for a week number.
// "Week 01", "week1" and "Week 1 Assignment" all normalize to "Week 1 Assignment".
func CanonicalWeekLabel(n int) string {
	return fmt.Sprintf("Week %d Assignment", n)
}

// ParseWeekToken extracts the week number from any header or query token
// containing a week reference. Returns false when the token carries none.
func ParseWeekToken(s string) (int, bool) {
	if m := weekHeaderRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}

	// A bare number ("2", "02") is accepted for query parameters.
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 {
		return n, true
	}

	return 0, false
}

// NormalizeHeaders maps a raw header row to the ordered list of score
// columns. The returned slice is empty when no header denotes a week score;
// the caller is responsible for treating that as ErrNoScoreColumns.
func NormalizeHeaders(headers []string) []ScoreColumn {
	var cols []ScoreColumn
	for i, h := range headers {
		m := weekHeaderRe.FindStringSubmatch(h)
		if m == nil {
			continue
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		cols = append(cols, ScoreColumn{
			Week:        CanonicalWeekLabel(n),
			SourceIndex: i,
		})
	}
	return cols
}

// FindIdentityColumns scans the header row for the columns carrying row
// identity. Export formats label them inconsistently ("Email", "Email ID",
// "Roll", "Roll Number", "Roll_No"), so containment is enough.
func FindIdentityColumns(headers []string) IdentityColumns {
	id := IdentityColumns{Email: -1, Roll: -1}
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case id.Email < 0 && strings.Contains(lower, "email"):
			id.Email = i
		case id.Roll < 0 && strings.Contains(lower, "roll"):
			id.Roll = i
		}
	}
	return id
}
