package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/repository"
)

// Repository implements ScheduleRepository for Postgres
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new Postgres schedule repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// ListUsers returns all dashboard accounts
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.client.Pool().Query(ctx, `
SELECT id, name, initials, email, program, role
FROM users
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Initials, &u.Email, &u.Program, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}

// ListVisibleSessions returns the lectures and workshops visible to the
// user. Students see sessions of courses in their program, lecturers
// see sessions they teach.
func (r *Repository) ListVisibleSessions(ctx context.Context, userID int64) ([]repository.SessionRecord, error) {
	rows, err := r.client.Pool().Query(ctx, `
SELECT s.id, s.course_id, s.title, s.type, s.starts_at, s.ends_at,
       s.location, s.online_event, s.attendance, s.objectives,
       s.lecturer_id, s.updated_at
FROM sessions s
JOIN courses c ON c.id = s.course_id
JOIN users u ON u.id = $1
WHERE (u.role = 'student' AND c.program = u.program)
   OR (u.role = 'lecturer' AND s.lecturer_id = u.id)
ORDER BY s.starts_at, s.id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var sessions []repository.SessionRecord
	for rows.Next() {
		var s repository.SessionRecord
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.Type, &s.StartsAt, &s.EndsAt,
			&s.Location, &s.OnlineEvent, &s.Attendance, &s.Objectives,
			&s.LecturerID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}

	return sessions, nil
}

// ListVisibleCoachingSlots returns the coaching slots visible to the
// user: slots they booked, or slots they offer as a lecturer.
func (r *Repository) ListVisibleCoachingSlots(ctx context.Context, userID int64) ([]repository.CoachingSlotRecord, error) {
	rows, err := r.client.Pool().Query(ctx, `
SELECT id, course_id, lecturer_id, student_id, starts_at, ends_at,
       location, online_event, updated_at
FROM coaching_slots
WHERE student_id = $1 OR lecturer_id = $1
ORDER BY starts_at, id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query coaching slots for user %d: %w", userID, err)
	}
	defer rows.Close()

	var slots []repository.CoachingSlotRecord
	for rows.Next() {
		var s repository.CoachingSlotRecord
		if err := rows.Scan(&s.ID, &s.CourseID, &s.LecturerID, &s.StudentID, &s.StartsAt, &s.EndsAt,
			&s.Location, &s.OnlineEvent, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coaching slot row: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coaching slot rows: %w", err)
	}

	return slots, nil
}

// ListCourses returns all courses
func (r *Repository) ListCourses(ctx context.Context) ([]repository.CourseRecord, error) {
	rows, err := r.client.Pool().Query(ctx, `
SELECT id, title, program, semester
FROM courses
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []repository.CourseRecord
	for rows.Next() {
		var c repository.CourseRecord
		if err := rows.Scan(&c.ID, &c.Title, &c.Program, &c.Semester); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read course rows: %w", err)
	}

	return courses, nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close closes the repository and releases resources
func (r *Repository) Close() {
	r.client.Close()
}
