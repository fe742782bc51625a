// internal/interfaces/course_repository.go
package interfaces

import (
	"context"

	"lms/internal/models"
)

// CourseFilter defines the filter criteria for listing courses
type CourseFilter struct {
	Query         string
	InstructorID  string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// CourseRepository defines the interface for course data operations
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, id string, course *models.Course) error
	SetThumbnailURL(ctx context.Context, id string, url string) error
	Delete(ctx context.Context, id string) error
}
