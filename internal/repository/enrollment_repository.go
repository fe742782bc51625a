package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"lms/internal/interfaces"
	"lms/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) interfaces.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO course_enrollments (id, user_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING enrolled_at
	`
	if err := tx.QueryRowContext(ctx, query, enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.Status, enrollment.EnrolledAt).Scan(&enrollment.EnrolledAt); err != nil {
		return err
	}

	progressQuery := `
		INSERT INTO course_progress (id, user_id, course_id, status, completion_percentage, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`
	if _, err := tx.ExecContext(ctx, progressQuery, uuid.NewString(), enrollment.UserID, enrollment.CourseID, models.ProgressStatusInProgress, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID string) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, enrolled_at, completed_at
		FROM course_enrollments
		WHERE user_id = $1 AND course_id = $2
	`

	var e models.Enrollment
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt, &completedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return &e, nil
}

func (r *enrollmentRepository) ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	query := `
		SELECT c.id, c.title, c.description, c.thumbnail_url,
			u.name, u.email,
			(SELECT COUNT(*) FROM lessons l JOIN course_sections s ON l.section_id = s.id WHERE s.course_id = c.id),
			COALESCE(p.completion_percentage, 0),
			e.status
		FROM course_enrollments e
		JOIN courses c ON c.id = e.course_id
		JOIN users u ON u.id = c.instructor_id
		LEFT JOIN course_progress p ON p.course_id = e.course_id AND p.user_id = e.user_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.EnrolledCourse
	for rows.Next() {
		var ec models.EnrolledCourse
		var instructor models.Instructor
		if err := rows.Scan(
			&ec.ID,
			&ec.Title,
			&ec.Description,
			&ec.Image,
			&instructor.Name,
			&instructor.Email,
			&ec.LessonCount,
			&ec.Progress,
			&ec.Status,
		); err != nil {
			return nil, err
		}
		ec.Instructor = &instructor
		courses = append(courses, &ec)
	}

	return courses, rows.Err()
}

func (r *enrollmentRepository) UpdateProgress(ctx context.Context, studentID string, courseID string, progress float64) (*models.CourseProgress, error) {
	completed := progress == 100

	enrollmentStatus := models.EnrollmentStatusActive
	progressStatus := models.ProgressStatusInProgress
	if completed {
		enrollmentStatus = models.EnrollmentStatusCompleted
		progressStatus = models.ProgressStatusCompleted
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var completedAt any
	if completed {
		completedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE course_enrollments
		SET status = $1, completed_at = $2
		WHERE user_id = $3 AND course_id = $4
	`, enrollmentStatus, completedAt, studentID, courseID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	var p models.CourseProgress
	err = tx.QueryRowContext(ctx, `
		UPDATE course_progress
		SET status = $1, completion_percentage = $2, updated_at = (NOW() AT TIME ZONE 'UTC')
		WHERE user_id = $3 AND course_id = $4
		RETURNING id, user_id, course_id, status, completion_percentage, updated_at
	`, progressStatus, progress, studentID, courseID).Scan(&p.ID, &p.UserID, &p.CourseID, &p.Status, &p.CompletionPercentage, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *enrollmentRepository) Stats(ctx context.Context, studentID string) (*models.StudentStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE e.status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE e.status = 'ACTIVE'),
			COALESCE(SUM(p.completion_percentage), 0)
		FROM course_enrollments e
		LEFT JOIN course_progress p ON p.course_id = e.course_id AND p.user_id = e.user_id
		WHERE e.user_id = $1
	`

	var stats models.StudentStats
	var totalProgress float64
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(
		&stats.TotalEnrollments,
		&stats.CompletedCourses,
		&stats.InProgressCourses,
		&totalProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate student stats: %w", err)
	}

	if stats.TotalEnrollments > 0 {
		stats.AverageProgress = int(math.Round(totalProgress / float64(stats.TotalEnrollments)))
	}

	return &stats, nil
}
