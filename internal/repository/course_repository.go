package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lms/internal/interfaces"
	"lms/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) interfaces.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, instructor_id, title, description, thumbnail_url, price, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		course.ID,
		course.InstructorID,
		course.Title,
		course.Description,
		course.ThumbnailURL,
		course.Price,
		course.IsPublished,
		course.CreatedAt,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT c.id, c.instructor_id, c.title, c.description, c.thumbnail_url, c.price, c.is_published,
			c.created_at, c.updated_at,
			u.name, u.email,
			(SELECT COUNT(*) FROM lessons l JOIN course_sections s ON l.section_id = s.id WHERE s.course_id = c.id)
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.id = $1
	`

	var c models.Course
	var instructor models.Instructor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.InstructorID,
		&c.Title,
		&c.Description,
		&c.ThumbnailURL,
		&c.Price,
		&c.IsPublished,
		&c.CreatedAt,
		&c.UpdatedAt,
		&instructor.Name,
		&instructor.Email,
		&c.LessonCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	c.Instructor = &instructor
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context, filter interfaces.CourseFilter) ([]*models.Course, error) {
	query := `
		SELECT c.id, c.instructor_id, c.title, c.description, c.thumbnail_url, c.price, c.is_published,
			c.created_at, c.updated_at,
			u.name, u.email,
			(SELECT COUNT(*) FROM lessons l JOIN course_sections s ON l.section_id = s.id WHERE s.course_id = c.id)
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE 1=1
	`

	args := make([]any, 0, 4)
	argPos := 1

	if filter.PublishedOnly {
		query += " AND c.is_published = TRUE"
	}
	if filter.InstructorID != "" {
		query += fmt.Sprintf(" AND c.instructor_id = $%d", argPos)
		args = append(args, filter.InstructorID)
		argPos++
	}
	if filter.Query != "" {
		query += fmt.Sprintf(" AND (c.title ILIKE $%d OR c.description ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}

	query += " ORDER BY c.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		var instructor models.Instructor
		if err := rows.Scan(
			&c.ID,
			&c.InstructorID,
			&c.Title,
			&c.Description,
			&c.ThumbnailURL,
			&c.Price,
			&c.IsPublished,
			&c.CreatedAt,
			&c.UpdatedAt,
			&instructor.Name,
			&instructor.Email,
			&c.LessonCount,
		); err != nil {
			return nil, err
		}
		c.Instructor = &instructor
		courses = append(courses, &c)
	}

	return courses, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, id string, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1,
			description = $2,
			thumbnail_url = $3,
			price = $4,
			is_published = $5,
			updated_at = (NOW() AT TIME ZONE 'UTC')
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query, course.Title, course.Description, course.ThumbnailURL, course.Price, course.IsPublished, id).Scan(&course.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	return err
}

func (r *courseRepository) SetThumbnailURL(ctx context.Context, id string, url string) error {
	query := `UPDATE courses SET thumbnail_url = $1, updated_at = (NOW() AT TIME ZONE 'UTC') WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, url, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
