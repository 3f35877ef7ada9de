// ============================================================================
// internal/ingest/merge.go
// Folding parsed week scores into a student's course list
// ============================================================================

package ingest

import (
	"context"
	"fmt"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// ResultWriter is the write side of the persistent store used by merging.
// The write must replace the student's whole course list in one per-document
// update; no cross-row transaction is assumed.
type ResultWriter interface {
	SaveCourses(ctx context.Context, rollNumber string, courses []shared.CourseEnrollment) error
}

// MergeCourseResults folds a batch's week scores into the student's course
// list in memory:
//   - an existing enrollment with the same course ID (case-insensitive) has
//     its results list replaced wholesale, never appended to — the canonical
//     week set is whatever the most recent batch carried;
//   - otherwise a new enrollment is appended with only the course ID, no
//     course name or mentor. Bulk-created enrollments are deliberately laxer
//     than API-created ones, which require a course name.
//
// Returns true when an existing enrollment was replaced.
func MergeCourseResults(student *shared.Student, courseID string, results []shared.WeekResult) bool {
	if i := student.FindCourse(courseID); i >= 0 {
		student.Courses[i].Results = results
		return true
	}

	student.Courses = append(student.Courses, shared.CourseEnrollment{
		CourseID: courseID,
		Results:  results,
	})
	return false
}

// MergeAndPersist applies MergeCourseResults and writes the updated course
// list back through the store. Write errors are wrapped in
// ErrPersistenceFailure and propagated, not retried.
func MergeAndPersist(ctx context.Context, writer ResultWriter, student *shared.Student, courseID string, results []shared.WeekResult) error {
	MergeCourseResults(student, courseID, results)

	if err := writer.SaveCourses(ctx, student.RollNumber, student.Courses); err != nil {
		return fmt.Errorf("%w: student %s: %v", ErrPersistenceFailure, student.RollNumber, err)
	}
	return nil
}
