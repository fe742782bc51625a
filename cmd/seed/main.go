// cmd/seed/main.go
//
// Seeds the database with demo accounts, courses and enrollments for
// local development. Existing rows are wiped first.
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"lms/internal/config"
	"lms/internal/db"
	"lms/internal/db/migrations"
)

const demoPassword = "password123"

func main() {
	cfg := config.Load()

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Starting seed...")

	if err := seed(database.DB); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Println("Seed completed successfully!")
}

func seed(dbConn *sql.DB) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Child tables first to satisfy foreign keys
	for _, table := range []string{
		"course_progress",
		"lessons",
		"course_sections",
		"course_enrollments",
		"courses",
		"password_reset_tokens",
		"users",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	passwordHash := string(hash)

	createUser := func(name, email, role string) (string, error) {
		id := uuid.NewString()
		_, err := tx.Exec(
			`INSERT INTO users (id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
			id, name, email, passwordHash, role,
		)
		return id, err
	}

	student, err := createUser("John Doe", "student@example.com", "STUDENT")
	if err != nil {
		return err
	}
	instructor1, err := createUser("John Smith", "john.instructor@example.com", "INSTRUCTOR")
	if err != nil {
		return err
	}
	instructor2, err := createUser("Sarah Johnson", "sarah.instructor@example.com", "INSTRUCTOR")
	if err != nil {
		return err
	}
	instructor3, err := createUser("Mike Wilson", "mike.instructor@example.com", "INSTRUCTOR")
	if err != nil {
		return err
	}

	type courseSeed struct {
		title        string
		description  string
		thumbnailURL string
		price        float64
		instructorID string
	}

	seeds := []courseSeed{
		{
			title:        "Web Development Fundamentals",
			description:  "Learn HTML, CSS, and JavaScript fundamentals with hands-on projects.",
			thumbnailURL: "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=500&h=300&fit=crop",
			price:        49.99,
			instructorID: instructor1,
		},
		{
			title:        "Advanced React Patterns",
			description:  "Master advanced React architecture and performance optimization.",
			thumbnailURL: "https://images.unsplash.com/photo-1633356122544-f134324ef6db?w=500&h=300&fit=crop",
			price:        69.99,
			instructorID: instructor2,
		},
		{
			title:        "Node.js and Express Backend",
			description:  "Build scalable REST APIs with Node.js, Express, and MySQL.",
			thumbnailURL: "https://images.unsplash.com/photo-1516321318423-f06a6b1ef01d?w=500&h=300&fit=crop",
			price:        59.99,
			instructorID: instructor1,
		},
		{
			title:        "Database Design and SQL",
			description:  "Design efficient schemas and write optimized SQL queries.",
			thumbnailURL: "https://images.unsplash.com/photo-1519389950473-47ba0277781c?w=500&h=300&fit=crop",
			price:        39.99,
			instructorID: instructor3,
		},
	}

	lessonTitles := []string{
		"Introduction",
		"Core Concepts",
		"Advanced Topics",
		"Practical Applications",
		"Project Work",
	}

	courseIDs := make([]string, 0, len(seeds))
	for _, c := range seeds {
		courseID := uuid.NewString()
		_, err := tx.Exec(
			`INSERT INTO courses (id, instructor_id, title, description, thumbnail_url, price, is_published)
			 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
			courseID, c.instructorID, c.title, c.description, c.thumbnailURL, c.price,
		)
		if err != nil {
			return fmt.Errorf("creating course %q: %w", c.title, err)
		}
		courseIDs = append(courseIDs, courseID)

		for sectionIndex := 1; sectionIndex <= 2; sectionIndex++ {
			sectionID := uuid.NewString()
			_, err := tx.Exec(
				`INSERT INTO course_sections (id, course_id, title, position) VALUES ($1, $2, $3, $4)`,
				sectionID, courseID, fmt.Sprintf("Section %d", sectionIndex), sectionIndex,
			)
			if err != nil {
				return err
			}

			for lessonIndex := 1; lessonIndex <= 5; lessonIndex++ {
				_, err := tx.Exec(
					`INSERT INTO lessons (id, section_id, title, position) VALUES ($1, $2, $3, $4)`,
					uuid.NewString(), sectionID,
					fmt.Sprintf("Lesson %d: %s", lessonIndex, lessonTitles[lessonIndex-1]),
					lessonIndex,
				)
				if err != nil {
					return err
				}
			}
		}
	}

	type progressSeed struct {
		courseID         string
		enrollmentStatus string
		progressStatus   string
		percentage       float64
	}

	demoProgress := []progressSeed{
		{courseIDs[0], "ACTIVE", "IN_PROGRESS", 65.0},
		{courseIDs[1], "ACTIVE", "IN_PROGRESS", 30.0},
		{courseIDs[3], "COMPLETED", "COMPLETED", 100.0},
	}

	for _, p := range demoProgress {
		query := `INSERT INTO course_enrollments (id, user_id, course_id, status) VALUES ($1, $2, $3, $4)`
		if p.enrollmentStatus == "COMPLETED" {
			query = `INSERT INTO course_enrollments (id, user_id, course_id, status, completed_at)
			         VALUES ($1, $2, $3, $4, NOW() AT TIME ZONE 'UTC')`
		}
		if _, err := tx.Exec(query, uuid.NewString(), student, p.courseID, p.enrollmentStatus); err != nil {
			return err
		}

		_, err := tx.Exec(
			`INSERT INTO course_progress (id, user_id, course_id, status, completion_percentage)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), student, p.courseID, p.progressStatus, p.percentage,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
