package repository

import (
	"context"
	"time"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
)

// SessionRecord is a raw lecture or workshop row as stored by the
// dashboard. StartsAt/EndsAt are wall-clock times in the feed timezone
// and always fall on the same calendar day.
type SessionRecord struct {
	ID          int64
	CourseID    int64
	Title       string
	Type        string // "lecture" or "workshop"
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	OnlineEvent bool
	Attendance  string // "mandatory" or "optional"
	Objectives  string
	LecturerID  *int64
	UpdatedAt   time.Time
}

// CoachingSlotRecord is a raw coaching slot row. The slot carries its
// own location fields, but feed normalization overrides them (see
// schedule.Source).
type CoachingSlotRecord struct {
	ID          int64
	CourseID    int64
	LecturerID  int64
	StudentID   *int64 // nil while the slot is unbooked
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	OnlineEvent bool
	UpdatedAt   time.Time
}

// CourseRecord provides course context for title enrichment.
type CourseRecord struct {
	ID       int64
	Title    string
	Program  string
	Semester int
}

// ScheduleRepository is the read-side collaborator for the calendar
// feed: users, the sessions and coaching slots visible to one user,
// and course context. Implementations own their connection lifecycle.
type ScheduleRepository interface {
	// ListUsers returns all dashboard accounts, used as the candidate
	// set for token resolution.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListVisibleSessions returns the lectures and workshops visible to
	// the user: for students, sessions of courses in their program; for
	// lecturers, sessions they teach.
	ListVisibleSessions(ctx context.Context, userID int64) ([]SessionRecord, error)

	// ListVisibleCoachingSlots returns the coaching slots visible to
	// the user: slots they booked, or slots they offer as a lecturer.
	ListVisibleCoachingSlots(ctx context.Context, userID int64) ([]CoachingSlotRecord, error)

	// ListCourses returns all courses for title enrichment.
	ListCourses(ctx context.Context) ([]CourseRecord, error)

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close()
}
