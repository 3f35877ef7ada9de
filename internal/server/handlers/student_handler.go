package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sudhee23/NPTEL-Management-Backend/internal/server/util"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/shared"
	"github.com/sudhee23/NPTEL-Management-Backend/internal/student"
)

// StudentHandler exposes student record CRUD.
type StudentHandler struct {
	Students *student.Service
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	// 1. Decode request body
	var s shared.Student
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// 2. Insert the record
	if err := h.Students.Create(r.Context(), &s); err != nil {
		if errors.Is(err, student.ErrDuplicate) {
			util.WriteJSONError(w, http.StatusConflict, err.Error())
			return
		}
		util.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusCreated, s)
}

// ListStudents handles GET /api/students
// Query Params: courseId, year, branch (all optional; courseId scopes the list)
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courseID := q.Get("courseId")

	var (
		students []shared.Student
		err      error
	)
	if courseID != "" {
		students, err = h.Students.ListByCourse(r.Context(), courseID, q.Get("year"), q.Get("branch"))
	} else {
		students, err = h.Students.List(r.Context())
	}
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, students)
}

// GetStudent handles GET /api/students/{roll}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	roll := chi.URLParam(r, "roll")
	if roll == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "roll number is required")
		return
	}

	s, err := h.Students.Get(r.Context(), roll)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			util.WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		util.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, s)
}

// AddCourse handles PUT /api/students/{roll}/courses
// Unlike the bulk import path, API-created enrollments require a course name.
func (h *StudentHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	roll := chi.URLParam(r, "roll")
	if roll == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "roll number is required")
		return
	}

	var enrollment shared.CourseEnrollment
	if err := json.NewDecoder(r.Body).Decode(&enrollment); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.Students.AddCourse(r.Context(), roll, enrollment); err != nil {
		switch {
		case errors.Is(err, student.ErrNotFound):
			util.WriteJSONError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, student.ErrCourseExists):
			util.WriteJSONError(w, http.StatusConflict, err.Error())
		default:
			util.WriteJSONError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "course added",
	})
}
