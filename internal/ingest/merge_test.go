package ingest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

type fakeWriter struct {
	saved map[string][]shared.CourseEnrollment
	err   error
}

func (f *fakeWriter) SaveCourses(_ context.Context, roll string, courses []shared.CourseEnrollment) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]shared.CourseEnrollment)
	}
	f.saved[roll] = courses
	return nil
}

func TestMergeCourseResults(t *testing.T) {
	week1 := []shared.WeekResult{{Week: "Week 1 Assignment", Score: 5}}
	week12 := []shared.WeekResult{
		{Week: "Week 1 Assignment", Score: 6},
		{Week: "Week 2 Assignment", Score: 8},
	}

	t.Run("replaces existing results wholesale", func(t *testing.T) {
		st := &shared.Student{
			RollNumber: "20CS001",
			Courses: []shared.CourseEnrollment{
				{CourseID: "noc25-cs52", CourseName: "Deep Learning", Results: week1},
			},
		}

		replaced := MergeCourseResults(st, "NOC25-CS52", week12)
		if !replaced {
			t.Error("expected replacement of existing enrollment")
		}
		if len(st.Courses) != 1 {
			t.Fatalf("got %d enrollments, want 1", len(st.Courses))
		}
		if !reflect.DeepEqual(st.Courses[0].Results, week12) {
			t.Errorf("results = %+v, want %+v", st.Courses[0].Results, week12)
		}
		// Unrelated enrollment metadata survives the merge.
		if st.Courses[0].CourseName != "Deep Learning" {
			t.Errorf("courseName = %q, want preserved", st.Courses[0].CourseName)
		}
	})

	t.Run("appends new enrollment without name or mentor", func(t *testing.T) {
		st := &shared.Student{
			RollNumber: "20CS001",
			Courses: []shared.CourseEnrollment{
				{CourseID: "noc25-me10", Results: week1},
			},
		}

		replaced := MergeCourseResults(st, "noc25-cs52", week12)
		if replaced {
			t.Error("expected append, not replacement")
		}
		if len(st.Courses) != 2 {
			t.Fatalf("got %d enrollments, want 2", len(st.Courses))
		}
		added := st.Courses[1]
		if added.CourseID != "noc25-cs52" || added.CourseName != "" || added.Mentor != "" {
			t.Errorf("appended enrollment = %+v, want bare courseId", added)
		}
		// Other enrollments are untouched.
		if !reflect.DeepEqual(st.Courses[0].Results, week1) {
			t.Errorf("unrelated enrollment was modified: %+v", st.Courses[0])
		}
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		st := &shared.Student{RollNumber: "20CS001"}

		MergeCourseResults(st, "noc25-cs52", week12)
		once := append([]shared.CourseEnrollment(nil), st.Courses...)

		MergeCourseResults(st, "noc25-cs52", week12)
		if !reflect.DeepEqual(st.Courses, once) {
			t.Errorf("second merge changed state: %+v vs %+v", st.Courses, once)
		}
	})
}

func TestMergeAndPersist(t *testing.T) {
	week := []shared.WeekResult{{Week: "Week 1 Assignment", Score: 5}}

	t.Run("persists the updated course list", func(t *testing.T) {
		w := &fakeWriter{}
		st := &shared.Student{RollNumber: "20CS001"}

		if err := MergeAndPersist(context.Background(), w, st, "noc25-cs52", week); err != nil {
			t.Fatalf("MergeAndPersist failed: %v", err)
		}
		saved := w.saved["20CS001"]
		if len(saved) != 1 || saved[0].CourseID != "noc25-cs52" {
			t.Errorf("saved courses = %+v", saved)
		}
	})

	t.Run("write error wraps ErrPersistenceFailure", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("write timeout")}
		st := &shared.Student{RollNumber: "20CS001"}

		err := MergeAndPersist(context.Background(), w, st, "noc25-cs52", week)
		if !errors.Is(err, ErrPersistenceFailure) {
			t.Errorf("error = %v, want ErrPersistenceFailure", err)
		}
	})
}
