package handlers

import (
	"net/http"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/util"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/student"
)

// AdminHandler exposes destructive bulk operations.
type AdminHandler struct {
	Students *student.Service
}

// DeleteAllStudents handles DELETE /api/admin/students
func (h *AdminHandler) DeleteAllStudents(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Students.DeleteAll(r.Context())
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": deleted,
	})
}

// ResetAllResults handles POST /api/admin/results/reset
// Clears every stored week result while keeping enrollments intact.
func (h *AdminHandler) ResetAllResults(w http.ResponseWriter, r *http.Request) {
	modified, err := h.Students.ResetAllResults(r.Context())
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"modified": modified,
	})
}
