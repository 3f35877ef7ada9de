// ============================================================================
// internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"strings"
	"time"
)

// ============================================================================
// Student Models
// ============================================================================

// Student represents a student record with embedded course enrollments.
// rollNumber is the primary natural key; email is a secondary natural key
// that is not guaranteed unique across records in practice.
type Student struct {
	ID         string             `bson:"_id,omitempty" json:"id,omitempty"`
	RollNumber string             `bson:"rollnumber" json:"rollNumber"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Branch     string             `bson:"branch,omitempty" json:"branch,omitempty"`
	Year       string             `bson:"year,omitempty" json:"year,omitempty"`
	Courses    []CourseEnrollment `bson:"courses" json:"courses"`
	CreatedAt  time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CourseEnrollment represents one course inside a student's course list.
// CourseName and Mentor are required when an enrollment is created through
// the student API, but stay empty for enrollments created by a bulk score
// import (the import only knows the course ID derived from the filename).
type CourseEnrollment struct {
	CourseID   string       `bson:"courseid" json:"courseId"`
	CourseName string       `bson:"coursename,omitempty" json:"courseName,omitempty"`
	Mentor     string       `bson:"mentor,omitempty" json:"mentor,omitempty"`
	Results    []WeekResult `bson:"results" json:"results"`
}

// WeekResult holds one week's assignment score.
// Week is always the canonical label "Week {n} Assignment".
type WeekResult struct {
	Week  string  `bson:"week" json:"week"`
	Score float64 `bson:"score" json:"score"`
}

// ============================================================================
// Faculty Models
// ============================================================================

// Faculty represents a faculty / mentor record. Report queries filtered by
// faculty name resolve through this record to a branch and course list.
type Faculty struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string    `bson:"facultyname" json:"facultyName"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Branch    string    `bson:"branch,omitempty" json:"branch,omitempty"`
	Year      string    `bson:"year,omitempty" json:"year,omitempty"`
	Courses   []string  `bson:"courses,omitempty" json:"courses,omitempty"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// ============================================================================
// Filter/Query Models
// ============================================================================

// StudentFilter represents filters for course-scoped student queries.
type StudentFilter struct {
	CourseID    string `json:"course_id"`
	Year        string `json:"year,omitempty"`
	Branch      string `json:"branch,omitempty"`
	FacultyName string `json:"faculty_name,omitempty"`
}

// ============================================================================
// Helper Methods
// ============================================================================

// FindCourse returns the index of the enrollment matching courseID
// (case-insensitively), or -1 if the student is not enrolled in it.
func (s *Student) FindCourse(courseID string) int {
	for i, c := range s.Courses {
		if strings.EqualFold(c.CourseID, courseID) {
			return i
		}
	}
	return -1
}

// HasCourse checks if the student is enrolled in a course.
func (s *Student) HasCourse(courseID string) bool {
	return s.FindCourse(courseID) >= 0
}

// WeekScore returns the stored score for a canonical week label, and whether
// the week is present in the enrollment's results at all.
func (c *CourseEnrollment) WeekScore(week string) (float64, bool) {
	for _, r := range c.Results {
		if strings.EqualFold(r.Week, week) {
			return r.Score, true
		}
	}
	return 0, false
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// Collection names
	StudentsCollection  = "students"
	FacultiesCollection = "faculties"

	// Current NPTEL term prefix used when canonicalizing course IDs
	CurrentTerm = "noc25"
)

// DefaultBranchCodes is the enumerated set of branch codes recognized in
// uploaded filenames. Extending it is a configuration change (see
// COURSE_BRANCH_CODES), not a code change.
var DefaultBranchCodes = []string{"cs", "me", "ce", "ee", "ece", "ch", "ge", "de", "mm"}
