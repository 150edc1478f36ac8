package domain

import "time"

// Kind identifies the source entity an Event was normalized from.
type Kind string

const (
	KindLecture  Kind = "lecture"
	KindWorkshop Kind = "workshop"
	KindCoaching Kind = "coaching"
)

// LocationType distinguishes remote from on-site events.
type LocationType string

const (
	LocationOnline   LocationType = "online"
	LocationOnCampus LocationType = "on_campus"
)

// Attendance marks whether participation is required.
type Attendance string

const (
	AttendanceMandatory Attendance = "mandatory"
	AttendanceOptional  Attendance = "optional"
)

// Event is the normalized representation of any schedulable entity
// (lecture, workshop or coaching slot). Start and End are wall-clock
// times in the feed timezone; source data never spans midnight, so
// both always fall on the same calendar day.
type Event struct {
	ID           int64
	Kind         Kind
	CourseID     int64
	Title        string
	Start        time.Time
	End          time.Time
	Location     string
	LocationType LocationType
	Attendance   Attendance
	Description  string
	LastModified time.Time // zero when the update time is unknown
}

// DayKey returns the calendar-day partition key, e.g. "2025-10-03".
func (e Event) DayKey() string {
	return e.Start.Format("2006-01-02")
}
