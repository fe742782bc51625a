package models

import "time"

type Course struct {
	ID           string      `json:"id"`
	InstructorID string      `json:"instructor_id" validate:"required,uuid4"`
	Title        string      `json:"title" validate:"required"`
	Description  string      `json:"description" validate:"required"`
	ThumbnailURL *string     `json:"thumbnail_url,omitempty"`
	Price        *float64    `json:"price,omitempty"`
	IsPublished  bool        `json:"is_published"`
	Instructor   *Instructor `json:"instructor,omitempty"`
	LessonCount  int         `json:"lesson_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Instructor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateCourseRequest struct {
	InstructorID string   `json:"instructor_id" validate:"required,uuid4"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsPublished  bool     `json:"is_published"`
}

type UpdateCourseRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsPublished  *bool    `json:"is_published,omitempty"`
}
