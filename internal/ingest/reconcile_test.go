package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// fakeStore is an in-memory stand-in for the Mongo student store: reads see
// the result of earlier writes, like the real per-document store.
type fakeStore struct {
	mu       sync.Mutex
	students []shared.Student
	findErr  error
	saveErr  error
	lookups  int
}

func (f *fakeStore) FindByIdentity(_ context.Context, id Identity, mode MatchMode) (*shared.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.findErr != nil {
		return nil, f.findErr
	}

	for i := range f.students {
		st := &f.students[i]
		switch mode {
		case MatchExact:
			if (id.Email != "" && st.Email == id.Email) ||
				(id.RollNumber != "" && st.RollNumber == id.RollNumber) {
				return copyStudent(st), nil
			}
		case MatchFold:
			if (id.Email != "" && strings.EqualFold(st.Email, id.Email)) ||
				(id.RollNumber != "" && strings.EqualFold(st.RollNumber, id.RollNumber)) {
				return copyStudent(st), nil
			}
		case MatchEmailPrefix:
			local := strings.ToLower(id.EmailLocalPart())
			if local != "" && strings.HasPrefix(strings.ToLower(st.Email), local) {
				return copyStudent(st), nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) SaveCourses(_ context.Context, roll string, courses []shared.CourseEnrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}

	for i := range f.students {
		if f.students[i].RollNumber == roll {
			f.students[i].Courses = courses
			return nil
		}
	}
	return fmt.Errorf("no student %s", roll)
}

func (f *fakeStore) get(roll string) *shared.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.students {
		if f.students[i].RollNumber == roll {
			return copyStudent(&f.students[i])
		}
	}
	return nil
}

func newTestReconciler(store Store) *Reconciler {
	return NewReconciler(store, shared.IngestConfig{Parallelism: 4}, nil)
}

func TestReconciler_ProcessFile_Scenario(t *testing.T) {
	store := &fakeStore{students: []shared.Student{
		{RollNumber: "20CE010", Name: "Meena", Email: "meena.pillai@college.edu", Branch: "CIVIL"},
	}}
	r := newTestReconciler(store)

	data := []byte("ID,Name,Email,Roll,Week 01 Assignment,Week 2\n" +
		"1,Meena,meena.pillai@college.edu,20CE010,4,9\n")

	outcome, err := r.ProcessFile(context.Background(), "ns_noc25_ce38_week.csv", data)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if outcome.CourseID != "noc25-ce38" {
		t.Errorf("courseId = %q, want %q", outcome.CourseID, "noc25-ce38")
	}
	if outcome.Successful != 1 || outcome.Failed != 0 {
		t.Fatalf("outcome = %+v, want 1 success", outcome)
	}

	st := store.get("20CE010")
	i := st.FindCourse("noc25-ce38")
	if i < 0 {
		t.Fatalf("student has no ce38 enrollment: %+v", st.Courses)
	}
	results := st.Courses[i].Results
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if results[0].Week != "Week 1 Assignment" || results[0].Score != 4 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Week != "Week 2 Assignment" || results[1].Score != 9 {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestReconciler_FaultIsolation(t *testing.T) {
	store := &fakeStore{students: []shared.Student{
		{RollNumber: "20CS001", Email: "a@x.edu"},
		{RollNumber: "20CS002", Email: "b@x.edu"},
		{RollNumber: "20CS003", Email: "c@x.edu"},
		{RollNumber: "20CS004", Email: "d@x.edu"},
		{RollNumber: "20CS005", Email: "e@x.edu"},
	}}
	r := newTestReconciler(store)

	data := []byte("Email,Roll,Week 1\n" +
		"a@x.edu,20CS001,1\n" +
		"b@x.edu,20CS002,2\n" +
		"unknown@x.edu,99ZZ999,3\n" +
		"d@x.edu,20CS004,4\n" +
		"e@x.edu,20CS005,5\n")

	outcome, err := r.ProcessFile(context.Background(), "cs52.csv", data)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if outcome.Successful != 4 || outcome.Failed != 1 {
		t.Fatalf("outcome = %+v, want 4 successes and 1 failure", outcome)
	}
	if outcome.TotalProcessed != outcome.Successful+outcome.Failed {
		t.Errorf("row-count invariant violated: %+v", outcome)
	}
	if len(outcome.Failures) != 1 {
		t.Fatalf("got %d failure entries, want 1", len(outcome.Failures))
	}
	failure := outcome.Failures[0]
	if !strings.Contains(failure.Identity, "99ZZ999") {
		t.Errorf("failure identity = %q, want the unmatched roll number", failure.Identity)
	}
	if !strings.Contains(failure.Reason, "no student record") {
		t.Errorf("failure reason = %q", failure.Reason)
	}
}

func TestReconciler_MalformedScoreBecomesZero(t *testing.T) {
	store := &fakeStore{students: []shared.Student{
		{RollNumber: "20CS001", Email: "a@x.edu"},
	}}
	r := newTestReconciler(store)

	data := []byte("Roll,Week 1,Week 2\n20CS001,abc,7\n")

	outcome, err := r.ProcessFile(context.Background(), "cs52.csv", data)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if outcome.Successful != 1 {
		t.Fatalf("outcome = %+v, want success despite bad cell", outcome)
	}

	st := store.get("20CS001")
	results := st.Courses[st.FindCourse("noc25-cs52")].Results
	if results[0].Score != 0 {
		t.Errorf("malformed score = %v, want 0", results[0].Score)
	}
	if results[1].Score != 7 {
		t.Errorf("good score = %v, want 7", results[1].Score)
	}
}

func TestReconciler_HeaderOnlyFailsBeforeLookups(t *testing.T) {
	store := &fakeStore{}
	r := newTestReconciler(store)

	_, err := r.ProcessFile(context.Background(), "cs52.csv", []byte("Roll,Week 1\n"))
	if !errors.Is(err, ErrEmptyOrMalformedInput) {
		t.Fatalf("error = %v, want ErrEmptyOrMalformedInput", err)
	}
	if store.lookups != 0 {
		t.Errorf("store queried %d times before the batch-fatal check", store.lookups)
	}
}

func TestReconciler_BatchFatalErrors(t *testing.T) {
	store := &fakeStore{}
	r := newTestReconciler(store)

	t.Run("unresolvable filename", func(t *testing.T) {
		_, err := r.ProcessFile(context.Background(), "scores.csv", []byte("Roll,Week 1\n20CS001,5\n"))
		if !errors.Is(err, ErrUnresolvableFilename) {
			t.Errorf("error = %v, want ErrUnresolvableFilename", err)
		}
	})

	t.Run("no score columns", func(t *testing.T) {
		_, err := r.ProcessFile(context.Background(), "cs52.csv", []byte("Roll,Name\n20CS001,Asha\n"))
		if !errors.Is(err, ErrNoScoreColumns) {
			t.Errorf("error = %v, want ErrNoScoreColumns", err)
		}
	})
}

func TestReconciler_ReplacesResultsOnResubmission(t *testing.T) {
	store := &fakeStore{students: []shared.Student{
		{RollNumber: "20CS001", Email: "a@x.edu", Courses: []shared.CourseEnrollment{
			{CourseID: "noc25-cs52", Results: []shared.WeekResult{
				{Week: "Week 1 Assignment", Score: 1},
				{Week: "Week 2 Assignment", Score: 2},
				{Week: "Week 3 Assignment", Score: 3},
			}},
		}},
	}}
	r := newTestReconciler(store)

	// The new batch carries fewer weeks; the canonical week set is whatever
	// the most recent batch had.
	data := []byte("Roll,Week 1\n20CS001,10\n")
	outcome, err := r.ProcessFile(context.Background(), "cs52.csv", data)
	if err != nil || outcome.Successful != 1 {
		t.Fatalf("ProcessFile = %+v, %v", outcome, err)
	}

	st := store.get("20CS001")
	results := st.Courses[st.FindCourse("noc25-cs52")].Results
	if len(results) != 1 {
		t.Fatalf("got %d results, want wholesale replacement to 1: %+v", len(results), results)
	}
	if results[0].Score != 10 {
		t.Errorf("score = %v, want 10", results[0].Score)
	}
}

func TestReconciler_DuplicateRowsLastWriteWins(t *testing.T) {
	store := &fakeStore{students: []shared.Student{
		{RollNumber: "20CS001", Email: "a@x.edu"},
	}}
	r := newTestReconciler(store)

	data := []byte("Roll,Week 1\n20CS001,3\n20CS001,8\n")
	outcome, err := r.ProcessFile(context.Background(), "cs52.csv", data)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	// Both rows count individually; the stored score is one of the two,
	// never a corrupted mix.
	if outcome.Successful != 2 {
		t.Fatalf("outcome = %+v, want 2 successes", outcome)
	}
	st := store.get("20CS001")
	results := st.Courses[st.FindCourse("noc25-cs52")].Results
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Score != 3 && results[0].Score != 8 {
		t.Errorf("score = %v, want 3 or 8", results[0].Score)
	}
}

func TestReconciler_RowScopedPersistenceFailure(t *testing.T) {
	store := &fakeStore{
		students: []shared.Student{{RollNumber: "20CS001", Email: "a@x.edu"}},
		saveErr:  errors.New("disk full"),
	}
	r := newTestReconciler(store)

	data := []byte("Roll,Week 1\n20CS001,5\n")
	outcome, err := r.ProcessFile(context.Background(), "cs52.csv", data)
	if err != nil {
		t.Fatalf("write errors must stay row-scoped, got batch error: %v", err)
	}
	if outcome.Failed != 1 || len(outcome.Failures) != 1 {
		t.Fatalf("outcome = %+v, want 1 recorded failure", outcome)
	}
	if !strings.Contains(outcome.Failures[0].Reason, "persist") {
		t.Errorf("reason = %q", outcome.Failures[0].Reason)
	}
}
