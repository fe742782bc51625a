package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"lms/internal/repository"
)

func TestEnrollCreatesEnrollmentAndProgressRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	studentID := "11111111-1111-1111-1111-111111111111"
	courseID := "22222222-2222-2222-2222-222222222222"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO course_enrollments").
		WillReturnRows(sqlmock.NewRows([]string{"enrolled_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("INSERT INTO course_progress").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	body, _ := json.Marshal(map[string]any{"studentId": studentID, "courseId": courseID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Enroll(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ACTIVE" {
		t.Fatalf("expected ACTIVE status got %v", resp["status"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnrollDuplicateReturnsAlreadyEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO course_enrollments").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	body, _ := json.Marshal(map[string]any{
		"studentId": "11111111-1111-1111-1111-111111111111",
		"courseId":  "22222222-2222-2222-2222-222222222222",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Enroll(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Student is already enrolled in this course" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
}

func TestUpdateProgressOutOfRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	body, _ := json.Marshal(map[string]any{
		"studentId": "11111111-1111-1111-1111-111111111111",
		"courseId":  "22222222-2222-2222-2222-222222222222",
		"progress":  150,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/enrollments/progress", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.UpdateProgress(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Progress must be between 0 and 100" {
		t.Fatalf("unexpected message %v", resp["message"])
	}

	// Range check happens before any queries
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateProgressToHundredCompletesEnrollment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	studentID := "11111111-1111-1111-1111-111111111111"
	courseID := "22222222-2222-2222-2222-222222222222"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE course_enrollments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE course_progress").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "status", "completion_percentage", "updated_at"}).
			AddRow("p1", studentID, courseID, "COMPLETED", 100.0, time.Now().UTC()))
	mock.ExpectCommit()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	body, _ := json.Marshal(map[string]any{"studentId": studentID, "courseId": courseID, "progress": 100})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/enrollments/progress", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.UpdateProgress(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "COMPLETED" {
		t.Fatalf("expected COMPLETED got %v", resp["status"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateProgressMissingEnrollment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE course_enrollments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	body, _ := json.Marshal(map[string]any{
		"studentId": "11111111-1111-1111-1111-111111111111",
		"courseId":  "22222222-2222-2222-2222-222222222222",
		"progress":  50,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/enrollments/progress", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.UpdateProgress(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListEnrollmentsRequiresStudentID(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/enrollments", nil)
	w := httptest.NewRecorder()
	h.ListEnrollments(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListEnrollmentsEmptyIsJSONArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT c.id, c.title, c.description, c.thumbnail_url").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "thumbnail_url", "name", "email", "count", "completion_percentage", "status"}))

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/enrollments?studentId=u1", nil)
	w := httptest.NewRecorder()
	h.ListEnrollments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp []any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a JSON array, got %s", w.Body.String())
	}
	if len(resp) != 0 {
		t.Fatalf("expected empty list got %v", resp)
	}
}

func TestGetStatsAveragesProgress(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "active", "sum"}).
			AddRow(3, 1, 2, 195.0))

	h := NewEnrollmentHandler(repository.NewEnrollmentRepository(db))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?studentId=u1", nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["totalEnrollments"] != float64(3) {
		t.Fatalf("expected 3 enrollments got %v", resp["totalEnrollments"])
	}
	if resp["averageProgress"] != float64(65) {
		t.Fatalf("expected average 65 got %v", resp["averageProgress"])
	}
}
