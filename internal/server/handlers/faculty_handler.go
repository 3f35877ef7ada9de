package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/faculty"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/util"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
)

// FacultyHandler exposes faculty record operations.
type FacultyHandler struct {
	Faculties *faculty.Service
}

// CreateFaculty handles POST /api/faculty
func (h *FacultyHandler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var f shared.Faculty
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.Faculties.Create(r.Context(), &f); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusCreated, f)
}

// ListFaculty handles GET /api/faculty
func (h *FacultyHandler) ListFaculty(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.Faculties.List(r.Context())
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, faculties)
}
