package models

import "time"

type ProgressStatus string

const (
	ProgressStatusNotStarted ProgressStatus = "NOT_STARTED"
	ProgressStatusInProgress ProgressStatus = "IN_PROGRESS"
	ProgressStatusCompleted  ProgressStatus = "COMPLETED"
)

type CourseProgress struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	CourseID             string         `json:"course_id"`
	Status               ProgressStatus `json:"status"`
	CompletionPercentage float64        `json:"completion_percentage"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type StudentStats struct {
	TotalEnrollments  int `json:"totalEnrollments"`
	CompletedCourses  int `json:"completedCourses"`
	InProgressCourses int `json:"inProgressCourses"`
	AverageProgress   int `json:"averageProgress"`
}
