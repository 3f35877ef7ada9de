package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/ingest"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/util"
)

// UploadHandler accepts NPTEL spreadsheet/CSV exports and runs the
// bulk-ingestion pipeline over them.
type UploadHandler struct {
	Reconciler     *ingest.Reconciler
	MaxUploadBytes int64
}

// UploadResults handles POST /api/upload/results
// Expects a multipart form with the export file under the "file" field.
// Returns the per-batch report; a partially failed batch is still a 200 with
// the failure list, only batch-fatal problems produce an error status.
func (h *UploadHandler) UploadResults(w http.ResponseWriter, r *http.Request) {
	// 1. Bound and parse the multipart body
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	// 2. Run the pipeline; the filename carries the course identity
	start := time.Now()
	outcome, err := h.Reconciler.ProcessFile(r.Context(), header.Filename, data)
	if err != nil {
		util.HandleIngestError(w, err)
		return
	}

	// 3. Respond with the batch report
	response := map[string]interface{}{
		"success":    true,
		"message":    fmt.Sprintf("Processed %d rows in %v", outcome.TotalProcessed, time.Since(start).Round(time.Millisecond)),
		"courseId":   outcome.CourseID,
		"successful": outcome.Successful,
		"failed":     outcome.Failed,
		"errors":     outcome.Failures,
	}

	util.WriteJSON(w, http.StatusOK, response)
}
