// ============================================================================
// internal/ingest/reconcile.go
// Batch orchestration: every row processed independently, outcomes aggregated
// ============================================================================

package ingest

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// Store is the full persistent-store contract the pipeline requires.
type Store interface {
	StudentFinder
	ResultWriter
}

// Logger is the minimal logging interface the reconciler accepts. Passing
// nil falls back to the process-wide standard logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// RowFailure attributes one failed row to its parsed identity so a human can
// follow up on it after the batch completes.
type RowFailure struct {
	Identity string `json:"identity"`
	Reason   string `json:"reason"`
}

// BatchOutcome is the aggregated report for one ingestion run. It is built
// fresh per upload and discarded after the response is sent.
type BatchOutcome struct {
	CourseID       string       `json:"courseId"`
	TotalProcessed int          `json:"totalProcessed"`
	Successful     int          `json:"successful"`
	Failed         int          `json:"failed"`
	Failures       []RowFailure `json:"errors"`
}

// Reconciler runs the full ingestion pipeline for one uploaded file.
type Reconciler struct {
	store       Store
	resolver    *CourseResolver
	logger      Logger
	parallelism int
	rowTimeout  time.Duration
}

// lockTable hands out one mutex per student roll number for the duration of
// a single batch. Rows naming the same student are read-modify-write on the
// same document; serializing them keeps a slow row from clobbering a
// finished one with stale course data.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the per-student mutex, creating it on first use, and
// returns the matching unlock.
func (t *lockTable) acquire(rollNumber string) func() {
	t.mu.Lock()
	l, ok := t.locks[rollNumber]
	if !ok {
		l = new(sync.Mutex)
		t.locks[rollNumber] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// NewReconciler wires a pipeline against a store. Parallelism below 1 is
// clamped to 1; a zero rowTimeout disables per-row deadlines.
func NewReconciler(store Store, cfg shared.IngestConfig, logger Logger) *Reconciler {
	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Reconciler{
		store:       store,
		resolver:    NewCourseResolver(cfg.BranchCodes),
		logger:      logger,
		parallelism: parallelism,
		rowTimeout:  cfg.RowTimeout,
	}
}

// ProcessFile runs the whole pipeline: filename resolution, table parsing,
// header normalization, then per-row matching and merging. The returned
// error is always batch-fatal (see errors.go); row-level problems are
// reported inside the BatchOutcome instead.
func (r *Reconciler) ProcessFile(ctx context.Context, filename string, data []byte) (*BatchOutcome, error) {
	// 1. Resolve the course once; it is shared by every row in the batch.
	course, err := r.resolver.Resolve(filename)
	if err != nil {
		return nil, err
	}

	// 2. Split bytes into header + data rows.
	rows, err := ParseTable(filename, data, ',')
	if err != nil {
		return nil, err
	}

	// 3. Derive the canonical score-column set from the header row.
	scoreCols := NormalizeHeaders(rows[0])
	if len(scoreCols) == 0 {
		return nil, ErrNoScoreColumns
	}
	idCols := FindIdentityColumns(rows[0])

	r.logger.Printf("INFO: ingesting %s: course=%s rows=%d weeks=%d",
		filename, course.CourseID, len(rows)-1, len(scoreCols))

	// 4. Fan out over the data rows.
	return r.Run(ctx, course.CourseID, rows[1:], scoreCols, idCols), nil
}

// Run processes the retained data rows with bounded parallelism. Each row's
// failure is recorded and never stops the others; Run itself is the join
// barrier and returns only after every row has an outcome. The invariant
// Successful + Failed == len(rows) always holds.
func (r *Reconciler) Run(ctx context.Context, courseID string, rows [][]string, scoreCols []ScoreColumn, idCols IdentityColumns) *BatchOutcome {
	outcome := &BatchOutcome{
		CourseID: courseID,
		Failures: []RowFailure{},
	}

	var mu sync.Mutex // guards outcome
	locks := newLockTable()

	g := new(errgroup.Group)
	g.SetLimit(r.parallelism)

	for _, row := range rows {
		row := row
		g.Go(func() error {
			id := rowIdentity(row, idCols)
			err := r.processRow(ctx, courseID, row, scoreCols, id, locks)

			mu.Lock()
			defer mu.Unlock()
			outcome.TotalProcessed++
			if err != nil {
				outcome.Failed++
				outcome.Failures = append(outcome.Failures, RowFailure{
					Identity: id.String(),
					Reason:   err.Error(),
				})
				r.logger.Printf("WARN: row %s failed: %v", id, err)
			} else {
				outcome.Successful++
			}
			// Row errors never propagate past the batch boundary.
			return nil
		})
	}

	g.Wait()
	return outcome
}

// processRow walks one row through Identified -> Matched -> Merged.
func (r *Reconciler) processRow(ctx context.Context, courseID string, row []string, scoreCols []ScoreColumn, id Identity, locks *lockTable) error {
	if r.rowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.rowTimeout)
		defer cancel()
	}

	student, err := MatchStudent(ctx, r.store, id)
	if err != nil {
		return err
	}

	// Serialize rows that resolved to the same student, then re-read the
	// document inside the lock so the merge starts from current state.
	unlock := locks.acquire(student.RollNumber)
	defer unlock()

	fresh, err := r.store.FindByIdentity(ctx, Identity{RollNumber: student.RollNumber}, MatchExact)
	if err == nil && fresh != nil {
		student = fresh
	}

	results := extractResults(row, scoreCols)
	return MergeAndPersist(ctx, r.store, student, courseID, results)
}

// rowIdentity pulls the identifying cells out of a data row.
func rowIdentity(row []string, idCols IdentityColumns) Identity {
	var id Identity
	if idCols.Email >= 0 && idCols.Email < len(row) {
		id.Email = row[idCols.Email]
	}
	if idCols.Roll >= 0 && idCols.Roll < len(row) {
		id.RollNumber = row[idCols.Roll]
	}
	return id
}

// extractResults converts the row's score cells into the canonical week
// result list. A malformed or empty score cell becomes 0 rather than failing
// the row. When the header pathologically carries two columns for the same
// week, the later column overwrites the earlier one's score.
func extractResults(row []string, scoreCols []ScoreColumn) []shared.WeekResult {
	results := make([]shared.WeekResult, 0, len(scoreCols))
	seen := make(map[string]int, len(scoreCols))

	for _, col := range scoreCols {
		var cell string
		if col.SourceIndex < len(row) {
			cell = row[col.SourceIndex]
		}
		score := parseScore(cell)

		if i, ok := seen[col.Week]; ok {
			results[i].Score = score
			continue
		}
		seen[col.Week] = len(results)
		results = append(results, shared.WeekResult{Week: col.Week, Score: score})
	}

	return results
}

// parseScore reads a score cell. Non-numeric and negative values collapse to
// 0 so one bad cell never aborts a row.
func parseScore(cell string) float64 {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
