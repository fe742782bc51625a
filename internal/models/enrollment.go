package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
)

type Enrollment struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	CourseID    string           `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid4"`
	CourseID  string `json:"courseId" validate:"required,uuid4"`
}

type UpdateProgressRequest struct {
	StudentID string  `json:"studentId" validate:"required,uuid4"`
	CourseID  string  `json:"courseId" validate:"required,uuid4"`
	Progress  float64 `json:"progress"`
}

// EnrolledCourse is the dashboard view of an enrollment: the course joined
// with its instructor, lesson count and the student's progress.
type EnrolledCourse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       *string          `json:"image,omitempty"`
	Instructor  *Instructor      `json:"instructor,omitempty"`
	LessonCount int              `json:"lessonCount"`
	Progress    float64          `json:"progress"`
	Status      EnrollmentStatus `json:"status"`
}
