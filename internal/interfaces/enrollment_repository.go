// internal/interfaces/enrollment_repository.go
package interfaces

import (
	"context"

	"lms/internal/models"
)

// EnrollmentRepository defines the interface for enrollment and progress
// data operations
type EnrollmentRepository interface {
	// Enroll creates the enrollment and its initial progress row in a
	// single transaction.
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID string) (*models.Enrollment, error)
	ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error)
	UpdateProgress(ctx context.Context, studentID string, courseID string, progress float64) (*models.CourseProgress, error)
	Stats(ctx context.Context, studentID string) (*models.StudentStats, error)
}
