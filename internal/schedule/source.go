package schedule

import (
	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/repository"
)

// Source normalizes raw schedule records into domain events.
type Source struct {
	log *zap.Logger
}

// NewSource creates a new event source
func NewSource(log *zap.Logger) *Source {
	return &Source{log: log}
}

// Normalize converts session and coaching slot records into a single
// event list. Course context is used for title enrichment; records
// referencing an unknown course degrade to a placeholder title rather
// than failing the whole set.
func (s *Source) Normalize(sessions []repository.SessionRecord, slots []repository.CoachingSlotRecord, courses []repository.CourseRecord) []domain.Event {
	courseTitles := make(map[int64]string, len(courses))
	for _, c := range courses {
		courseTitles[c.ID] = c.Title
	}

	events := make([]domain.Event, 0, len(sessions)+len(slots))
	for _, rec := range sessions {
		events = append(events, s.normalizeSession(rec))
	}
	for _, rec := range slots {
		events = append(events, s.normalizeSlot(rec, courseTitles))
	}

	return events
}

func (s *Source) normalizeSession(rec repository.SessionRecord) domain.Event {
	kind := domain.KindLecture
	if rec.Type == string(domain.KindWorkshop) {
		kind = domain.KindWorkshop
	}

	locationType := domain.LocationOnCampus
	if rec.OnlineEvent {
		locationType = domain.LocationOnline
	}

	attendance := domain.AttendanceMandatory
	if rec.Attendance == string(domain.AttendanceOptional) {
		attendance = domain.AttendanceOptional
	}

	return domain.Event{
		ID:           rec.ID,
		Kind:         kind,
		CourseID:     rec.CourseID,
		Title:        rec.Title,
		Start:        rec.StartsAt,
		End:          rec.EndsAt,
		Location:     rec.Location,
		LocationType: locationType,
		Attendance:   attendance,
		Description:  rec.Objectives,
		LastModified: rec.UpdatedAt,
	}
}

func (s *Source) normalizeSlot(rec repository.CoachingSlotRecord, courseTitles map[int64]string) domain.Event {
	title := "Coaching"
	if courseTitle, ok := courseTitles[rec.CourseID]; ok {
		title = courseTitle + " Coaching"
	} else {
		s.log.Warn("Coaching slot references unknown course",
			zap.Int64("slot_id", rec.ID),
			zap.Int64("course_id", rec.CourseID))
	}

	// Coaching slots are always reported as online, ignoring the
	// record's own location fields. Subscribed clients rely on the
	// current output, so this stays as-is.
	// TODO(product): confirm whether on-campus coaching slots should
	// keep their room instead of the forced "Online".
	return domain.Event{
		ID:           rec.ID,
		Kind:         domain.KindCoaching,
		CourseID:     rec.CourseID,
		Title:        title,
		Start:        rec.StartsAt,
		End:          rec.EndsAt,
		Location:     "Online",
		LocationType: domain.LocationOnline,
		Attendance:   domain.AttendanceOptional,
		LastModified: rec.UpdatedAt,
	}
}
