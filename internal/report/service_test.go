package report

import (
	"testing"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

func testStudents() []shared.Student {
	return []shared.Student{
		{
			RollNumber: "20CS001", Name: "Asha", Email: "asha@x.edu", Branch: "CSE",
			Courses: []shared.CourseEnrollment{{
				CourseID: "noc25-cs52",
				Results: []shared.WeekResult{
					{Week: "Week 1 Assignment", Score: 5},
					{Week: "Week 2 Assignment", Score: 8},
				},
			}},
		},
		{
			RollNumber: "20CS002", Name: "Rohit", Email: "rohit@x.edu", Branch: "CSE",
			Courses: []shared.CourseEnrollment{{
				CourseID: "noc25-cs52",
				Results: []shared.WeekResult{
					{Week: "Week 1 Assignment", Score: 0},
					{Week: "Week 2 Assignment", Score: 6},
				},
			}},
		},
		{
			RollNumber: "20EC005", Name: "Meena", Email: "meena@x.edu", Branch: "ECE",
			Courses: []shared.CourseEnrollment{{
				CourseID: "noc25-cs52",
				Results: []shared.WeekResult{
					{Week: "Week 1 Assignment", Score: 7},
				},
			}},
		},
	}
}

func TestBuildSubmissionReport(t *testing.T) {
	t.Run("buckets by branch for a given week", func(t *testing.T) {
		rep := BuildSubmissionReport(testStudents(), "NOC25-CS52", "1")

		if rep.Week != "Week 1 Assignment" {
			t.Errorf("week = %q, want canonical label", rep.Week)
		}
		if rep.TotalStudents != 3 {
			t.Errorf("total = %d, want 3", rep.TotalStudents)
		}
		if rep.Submitted != 2 || rep.NotSubmitted != 1 {
			t.Errorf("submitted/not = %d/%d, want 2/1", rep.Submitted, rep.NotSubmitted)
		}

		if len(rep.Branches) != 2 {
			t.Fatalf("got %d branches, want 2: %+v", len(rep.Branches), rep.Branches)
		}
		cse := rep.Branches[0]
		if cse.Branch != "CSE" || cse.Submitted != 1 || cse.NotSubmitted != 1 {
			t.Errorf("CSE bucket = %+v", cse)
		}
		ece := rep.Branches[1]
		if ece.Branch != "ECE" || ece.Submitted != 1 || ece.NotSubmitted != 0 {
			t.Errorf("ECE bucket = %+v", ece)
		}

		if len(rep.NonSubmitters) != 1 || rep.NonSubmitters[0].RollNumber != "20CS002" {
			t.Errorf("nonSubmitters = %+v, want 20CS002 only", rep.NonSubmitters)
		}
	})

	t.Run("zero score counts as not submitted", func(t *testing.T) {
		rep := BuildSubmissionReport(testStudents(), "noc25-cs52", "Week 01")
		found := false
		for _, ns := range rep.NonSubmitters {
			if ns.RollNumber == "20CS002" {
				found = true
			}
		}
		if !found {
			t.Errorf("20CS002 has score 0 and must be listed: %+v", rep.NonSubmitters)
		}
	})

	t.Run("missing week defaults to the latest stored week", func(t *testing.T) {
		rep := BuildSubmissionReport(testStudents(), "noc25-cs52", "")
		if rep.Week != "Week 2 Assignment" {
			t.Errorf("week = %q, want latest stored week", rep.Week)
		}
		// The ECE student has no Week 2 result at all and counts as not submitted.
		if rep.Submitted != 2 || rep.NotSubmitted != 1 {
			t.Errorf("submitted/not = %d/%d, want 2/1", rep.Submitted, rep.NotSubmitted)
		}
	})

	t.Run("student without the course is ignored", func(t *testing.T) {
		students := append(testStudents(), shared.Student{
			RollNumber: "20ME001", Branch: "MECH",
			Courses: []shared.CourseEnrollment{{CourseID: "noc25-me10"}},
		})
		rep := BuildSubmissionReport(students, "noc25-cs52", "1")
		if rep.TotalStudents != 3 {
			t.Errorf("total = %d, want 3", rep.TotalStudents)
		}
	})
}
