package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"lms/internal/interfaces"
	"lms/internal/models"
)

type EnrollmentHandler struct {
	repo      interfaces.EnrollmentRepository
	validator *validator.Validate
}

func NewEnrollmentHandler(repo interfaces.EnrollmentRepository) *EnrollmentHandler {
	return &EnrollmentHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

// @Tags Enrollments
// @Summary List a student's enrolled courses
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {array} models.EnrolledCourse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "studentId is required")
		return
	}

	courses, err := h.repo.ListEnrolledCourses(r.Context(), studentID)
	if err != nil {
		log.Printf("Failed to list enrollments for %s: %v", studentID, err)
		writeJSONError(w, http.StatusInternalServerError, "list_enrollments_failed", "Failed to fetch enrollments")
		return
	}

	if courses == nil {
		courses = []*models.EnrolledCourse{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(courses)
}

// @Tags Enrollments
// @Summary Enroll a student in a course
// @Accept json
// @Produce json
// @Param body body models.EnrollRequest true "Enroll request"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/enrollments [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		UserID:     req.StudentID,
		CourseID:   req.CourseID,
		Status:     models.EnrollmentStatusActive,
		EnrolledAt: time.Now().UTC(),
	}

	if err := h.repo.Enroll(r.Context(), enrollment); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				writeJSONMessage(w, http.StatusBadRequest, "Student is already enrolled in this course")
				return
			case "23503":
				writeJSONError(w, http.StatusBadRequest, "invalid_reference", "Student or course not found")
				return
			}
		}
		log.Printf("Failed to enroll student %s in course %s: %v", req.StudentID, req.CourseID, err)
		writeJSONError(w, http.StatusInternalServerError, "enroll_failed", "Failed to enroll in course")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(enrollment)
}

// @Tags Enrollments
// @Summary Update course progress for a student
// @Accept json
// @Produce json
// @Param body body models.UpdateProgressRequest true "Update progress request"
// @Success 200 {object} models.CourseProgress
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/enrollments/progress [put]
func (h *EnrollmentHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if req.Progress < 0 || req.Progress > 100 {
		writeJSONMessage(w, http.StatusBadRequest, "Progress must be between 0 and 100")
		return
	}

	progress, err := h.repo.UpdateProgress(r.Context(), req.StudentID, req.CourseID, req.Progress)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "enrollment_not_found", "Enrollment not found")
			return
		}
		log.Printf("Failed to update progress for student %s course %s: %v", req.StudentID, req.CourseID, err)
		writeJSONError(w, http.StatusInternalServerError, "update_progress_failed", "Failed to update progress")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(progress)
}

// @Tags Enrollments
// @Summary Student dashboard stats
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {object} models.StudentStats
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/stats [get]
func (h *EnrollmentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "studentId is required")
		return
	}

	stats, err := h.repo.Stats(r.Context(), studentID)
	if err != nil {
		log.Printf("Failed to fetch stats for %s: %v", studentID, err)
		writeJSONError(w, http.StatusInternalServerError, "stats_failed", "Failed to fetch stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}
