package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"lms/internal/config"
	"lms/internal/interfaces"
	"lms/internal/models"
)

type CourseHandler struct {
	repo          interfaces.CourseRepository
	s3Client      *s3.Client
	bucket        string
	publicBaseURL string
	validator     *validator.Validate
}

func NewCourseHandler(repo interfaces.CourseRepository, s3Config *config.S3Config) *CourseHandler {
	h := &CourseHandler{
		repo:      repo,
		validator: validator.New(),
	}
	if s3Config != nil {
		h.s3Client = s3Config.Client
		h.bucket = s3Config.Bucket
		h.publicBaseURL = s3Config.PublicBaseURL
	}
	return h
}

// @Tags Courses
// @Summary List courses
// @Produce json
// @Param q query string false "Substring to match against title and description"
// @Success 200 {array} models.Course
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	filter := interfaces.CourseFilter{
		Query:         r.URL.Query().Get("q"),
		PublishedOnly: true,
		Limit:         100,
	}

	courses, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to list courses: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "list_courses_failed", "Failed to fetch courses")
		return
	}

	if courses == nil {
		courses = []*models.Course{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(courses)
}

// @Tags Courses
// @Summary Get course
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Course ID is required")
		return
	}

	course, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "course_not_found", "Course not found")
			return
		}
		log.Printf("Failed to fetch course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "get_course_failed", "Failed to fetch course")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(course)
}

// @Tags Courses
// @Summary Create course
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateCourseRequest true "Create course request"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	course := &models.Course{
		ID:           uuid.NewString(),
		InstructorID: req.InstructorID,
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Price:        req.Price,
		IsPublished:  req.IsPublished,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), course); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			writeJSONError(w, http.StatusBadRequest, "invalid_instructor_id", "Instructor not found")
			return
		}
		log.Printf("Failed to create course: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "create_course_failed", "Failed to create course")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(course)
}

// @Tags Courses
// @Summary Update course
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param body body models.UpdateCourseRequest true "Update course request"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Course ID is required")
		return
	}

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	course, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "course_not_found", "Course not found")
			return
		}
		log.Printf("Failed to fetch course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "get_course_failed", "Failed to fetch course")
		return
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}
	if req.Price != nil {
		course.Price = req.Price
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := h.repo.Update(r.Context(), id, course); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "course_not_found", "Course not found")
			return
		}
		log.Printf("Failed to update course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "update_course_failed", "Failed to update course")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(course)
}

// @Tags Courses
// @Summary Delete course
// @Security BearerAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Course ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "course_not_found", "Course not found")
			return
		}
		log.Printf("Failed to delete course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "delete_course_failed", "Failed to delete course")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Course has been deleted successfully")
}

// UploadThumbnail stores a course thumbnail image in S3 and records its
// public URL on the course row.
// @Tags Courses
// @Summary Upload course thumbnail
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param file formData file true "Thumbnail image"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/courses/{id}/thumbnail [post]
func (h *CourseHandler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Course ID is required")
		return
	}

	if h.s3Client == nil {
		writeJSONError(w, http.StatusInternalServerError, "storage_unconfigured", "Thumbnail storage is not configured")
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "course_not_found", "Course not found")
			return
		}
		log.Printf("Failed to fetch course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "get_course_failed", "Failed to fetch course")
		return
	}

	const maxMemory = 8 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	defer file.Close()

	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		writeJSONError(w, http.StatusBadRequest, "validation_error", "file must be an image")
		return
	}

	key := filepath.Join("thumbnails", id+filepath.Ext(header.Filename))

	uploader := manager.NewUploader(h.s3Client)
	if _, err := uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(header.Header.Get("Content-Type")),
	}); err != nil {
		log.Printf("Failed to upload thumbnail for course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to upload thumbnail")
		return
	}

	url := strings.TrimRight(h.publicBaseURL, "/") + "/" + key
	if err := h.repo.SetThumbnailURL(r.Context(), id, url); err != nil {
		log.Printf("Failed to save thumbnail URL for course %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "update_course_failed", "Failed to save thumbnail")
		return
	}

	course, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "get_course_failed", "Failed to fetch updated course")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(course)
}
