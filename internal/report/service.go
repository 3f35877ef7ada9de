// ============================================================================
// internal/report/service.go
// Submission-completeness reporting per course/week/branch
// ============================================================================

package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/ingest"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// Params are the report-style read filters. CourseID is required; the rest
// are optional narrowing filters.
type Params struct {
	CourseID    string
	Week        string // "1", "01" or "Week 1 Assignment" -- all accepted
	Year        string
	Branch      string
	FacultyName string
}

// BranchSummary is the per-branch completeness bucket.
type BranchSummary struct {
	Branch       string `json:"branch"`
	Submitted    int    `json:"submitted"`
	NotSubmitted int    `json:"notSubmitted"`
}

// NonSubmitter identifies one student without a submission for the week.
type NonSubmitter struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Branch     string `json:"branch,omitempty"`
}

// SubmissionReport is the response for the completeness query.
type SubmissionReport struct {
	CourseID      string          `json:"courseId"`
	Week          string          `json:"week"`
	TotalStudents int             `json:"totalStudents"`
	Submitted     int             `json:"submitted"`
	NotSubmitted  int             `json:"notSubmitted"`
	Branches      []BranchSummary `json:"branches"`
	NonSubmitters []NonSubmitter  `json:"nonSubmitters"`
}

// StudentLister is the read contract the report needs from the student store.
type StudentLister interface {
	ListByCourse(ctx context.Context, courseID, year, branch string) ([]shared.Student, error)
}

// Service answers submission-completeness queries.
type Service struct {
	students  StudentLister
	faculties *faculty.Service
}

// NewService creates a new report Service instance
func NewService(students StudentLister, faculties *faculty.Service) *Service {
	return &Service{students: students, faculties: faculties}
}

// Submissions builds the completeness report for a course and week.
func (s *Service) Submissions(ctx context.Context, p Params) (*SubmissionReport, error) {
	if p.CourseID == "" {
		return nil, fmt.Errorf("courseId is required")
	}

	// A facultyName filter resolves through the faculty record to a branch;
	// an explicit branch parameter takes precedence.
	branch := p.Branch
	if branch == "" && p.FacultyName != "" && s.faculties != nil {
		f, err := s.faculties.FindByName(ctx, p.FacultyName)
		if err != nil {
			return nil, fmt.Errorf("faculty %q: %w", p.FacultyName, err)
		}
		branch = f.Branch
	}

	students, err := s.students.ListByCourse(ctx, p.CourseID, p.Year, branch)
	if err != nil {
		return nil, err
	}

	return BuildSubmissionReport(students, p.CourseID, p.Week), nil
}

// BuildSubmissionReport buckets enrolled students by whether they submitted
// the requested week's assignment (a positive stored score counts as
// submitted). An empty week parameter defaults to the latest week present in
// any enrollment for the course.
func BuildSubmissionReport(students []shared.Student, courseID, week string) *SubmissionReport {
	label := resolveWeekLabel(students, courseID, week)

	rep := &SubmissionReport{
		CourseID:      strings.ToLower(courseID),
		Week:          label,
		NonSubmitters: []NonSubmitter{},
	}

	byBranch := make(map[string]*BranchSummary)
	for i := range students {
		st := &students[i]
		ci := st.FindCourse(courseID)
		if ci < 0 {
			continue
		}

		rep.TotalStudents++

		score, ok := st.Courses[ci].WeekScore(label)
		submitted := ok && score > 0

		b := byBranch[st.Branch]
		if b == nil {
			b = &BranchSummary{Branch: st.Branch}
			byBranch[st.Branch] = b
		}

		if submitted {
			rep.Submitted++
			b.Submitted++
		} else {
			rep.NotSubmitted++
			b.NotSubmitted++
			rep.NonSubmitters = append(rep.NonSubmitters, NonSubmitter{
				RollNumber: st.RollNumber,
				Name:       st.Name,
				Email:      st.Email,
				Branch:     st.Branch,
			})
		}
	}

	for _, b := range byBranch {
		rep.Branches = append(rep.Branches, *b)
	}
	sort.Slice(rep.Branches, func(i, j int) bool {
		return rep.Branches[i].Branch < rep.Branches[j].Branch
	})

	return rep
}

// resolveWeekLabel canonicalizes the week parameter, defaulting to the
// highest week number stored for the course when the parameter is empty.
func resolveWeekLabel(students []shared.Student, courseID, week string) string {
	if week != "" {
		if n, ok := ingest.ParseWeekToken(week); ok {
			return ingest.CanonicalWeekLabel(n)
		}
		// An unparseable week is used verbatim; it will simply match nothing.
		return week
	}

	latest := 0
	for i := range students {
		ci := students[i].FindCourse(courseID)
		if ci < 0 {
			continue
		}
		for _, r := range students[i].Courses[ci].Results {
			if n, ok := ingest.ParseWeekToken(r.Week); ok && n > latest {
				latest = n
			}
		}
	}
	if latest == 0 {
		latest = 1
	}
	return ingest.CanonicalWeekLabel(latest)
}
