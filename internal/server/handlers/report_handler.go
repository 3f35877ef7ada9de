package handlers

import (
	"errors"
	"net/http"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/report"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/util"
)

// ReportHandler exposes submission-completeness reads.
type ReportHandler struct {
	Reports *report.Service
}

// GetSubmissions handles GET /api/report/submissions
// Query Params: courseId (required), week, year, branch, facultyName
func (h *ReportHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	// 1. Extract query parameters
	q := r.URL.Query()
	params := report.Params{
		CourseID:    q.Get("courseId"),
		Week:        q.Get("week"),
		Year:        q.Get("year"),
		Branch:      q.Get("branch"),
		FacultyName: q.Get("facultyName"),
	}
	if params.CourseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "courseId is required")
		return
	}

	// 2. Build the report
	rep, err := h.Reports.Submissions(r.Context(), params)
	if err != nil {
		if errors.Is(err, faculty.ErrNotFound) {
			util.WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, rep)
}
