package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestGetByStudentAndCourse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	enrolledAt := time.Now().UTC().Add(-24 * time.Hour)
	completedAt := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, user_id, course_id, status, enrolled_at, completed_at\s+FROM course_enrollments\s+WHERE user_id = \$1 AND course_id = \$2`).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "status", "enrolled_at", "completed_at"}).
			AddRow("e1", "u1", "c1", "COMPLETED", enrolledAt, completedAt))

	repo := NewEnrollmentRepository(db)
	e, err := repo.GetByStudentAndCourse(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("GetByStudentAndCourse: %v", err)
	}
	if e.ID != "e1" || e.Status != "COMPLETED" {
		t.Fatalf("unexpected enrollment %+v", e)
	}
	if e.CompletedAt == nil || !e.CompletedAt.Equal(completedAt) {
		t.Fatalf("expected completed_at %v got %v", completedAt, e.CompletedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByStudentAndCourseNotEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_id, course_id, status, enrolled_at, completed_at\s+FROM course_enrollments`).
		WithArgs("u1", "c9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "status", "enrolled_at", "completed_at"}))

	repo := NewEnrollmentRepository(db)
	if _, err := repo.GetByStudentAndCourse(context.Background(), "u1", "c9"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows got %v", err)
	}
}
