// ============================================================================
// internal/ingest/match.go
// Row identity -> stored student record, via an ordered strategy cascade
// ============================================================================

package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// Identity carries the identifying fields parsed from one data row.
type Identity struct {
	Email      string `json:"email,omitempty"`
	RollNumber string `json:"rollNumber,omitempty"`
}

// Empty reports whether the row carries no identifier at all.
func (id Identity) Empty() bool {
	return id.Email == "" && id.RollNumber == ""
}

// String renders the identity for failure reports and logs.
func (id Identity) String() string {
	switch {
	case id.RollNumber != "" && id.Email != "":
		return fmt.Sprintf("%s/%s", id.RollNumber, id.Email)
	case id.RollNumber != "":
		return id.RollNumber
	default:
		return id.Email
	}
}

// EmailLocalPart returns the text before the '@' of the row's email, or ""
// when there is no email.
func (id Identity) EmailLocalPart() string {
	if i := strings.Index(id.Email, "@"); i > 0 {
		return id.Email[:i]
	}
	return id.Email
}

// MatchMode selects how the store compares stored identifiers to a row's.
type MatchMode int

const (
	// MatchExact requires byte equality on email or roll number.
	MatchExact MatchMode = iota
	// MatchFold requires case-insensitive equality on either field.
	MatchFold
	// MatchEmailPrefix matches stored emails whose local part starts,
	// case-insensitively, with the row email's local part.
	MatchEmailPrefix
)

// StudentFinder is the read side of the persistent store used by matching.
// A nil student with a nil error means "no record", not a failure.
type StudentFinder interface {
	FindByIdentity(ctx context.Context, id Identity, mode MatchMode) (*shared.Student, error)
}

// matchStep is one layer of the cascade: it runs only when applicable to the
// row's identity and only if every earlier layer returned nothing.
type matchStep struct {
	name       string
	mode       MatchMode
	applicable func(id Identity) bool
}

// matchCascade is the fixed strategy order: exact, case-folded, then
// email-local-part prefix. Export identifiers frequently differ from stored
// identifiers only in case or domain variants; the cascade recovers those
// without allowing arbitrary fuzzy matches. No edit-distance matching:
// precision over recall beyond this point.
var matchCascade = []matchStep{
	{name: "exact", mode: MatchExact, applicable: func(id Identity) bool { return !id.Empty() }},
	{name: "case-insensitive", mode: MatchFold, applicable: func(id Identity) bool { return !id.Empty() }},
	{name: "email-prefix", mode: MatchEmailPrefix, applicable: func(id Identity) bool { return id.EmailLocalPart() != "" }},
}

// MatchStudent resolves a row identity to exactly one stored student.
// Returns ErrMissingIdentity when the row has no identifier at all,
// ErrStudentNotFound when the full cascade misses, and wraps store errors
// in ErrPersistenceFailure.
func MatchStudent(ctx context.Context, finder StudentFinder, id Identity) (*shared.Student, error) {
	if id.Empty() {
		return nil, ErrMissingIdentity
	}

	for _, step := range matchCascade {
		if !step.applicable(id) {
			continue
		}

		student, err := finder.FindByIdentity(ctx, id, step.mode)
		if err != nil {
			return nil, fmt.Errorf("%w: %s lookup: %v", ErrPersistenceFailure, step.name, err)
		}
		if student != nil {
			return student, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
}
