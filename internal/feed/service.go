package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/ical"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/repository"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/schedule"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/token"
)

// ErrTokenNotFound indicates a token that does not map to any user.
// Deliberately carries no detail: the boundary must not reveal whether
// the token was malformed or merely unknown.
var ErrTokenNotFound = errors.New("calendar feed not found")

// Service orchestrates token resolution, schedule fetching,
// normalization and serialization into one calendar document per
// request. No caching: every request regenerates from current data.
type Service struct {
	repo   repository.ScheduleRepository
	auth   *token.Authority
	source *schedule.Source
	log    *zap.Logger

	now func() time.Time
}

// NewService creates a new feed service
func NewService(repo repository.ScheduleRepository, auth *token.Authority, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		auth:   auth,
		source: schedule.NewSource(log),
		log:    log,
		now:    time.Now,
	}
}

// Feed builds the complete calendar document for the owner of tok. The
// full event set is serialized with no date-window truncation, clients
// handle their own display range.
func (s *Service) Feed(ctx context.Context, tok string) (*Result, error) {
	events, err := s.eventsForToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	body := ical.Serialize(s.dropMalformed(events), s.now())

	return &Result{Body: body, ContentType: ical.ContentType}, nil
}

// Upcoming returns the owner's events within the next days days,
// chronologically ordered. Already-finished events of the current day
// are excluded.
func (s *Service) Upcoming(ctx context.Context, tok string, days int) ([]domain.Event, error) {
	events, err := s.eventsForToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	return schedule.Upcoming(s.dropMalformed(events), s.wallNow(), days), nil
}

// Healthy checks the data dependency.
func (s *Service) Healthy(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) eventsForToken(ctx context.Context, tok string) ([]domain.Event, error) {
	// Reject malformed tokens before touching the user list.
	if !token.Valid(tok) {
		return nil, ErrTokenNotFound
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	userID, ok := s.auth.Resolve(tok, users)
	if !ok {
		return nil, ErrTokenNotFound
	}

	sessions, err := s.repo.ListVisibleSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %d: %w", userID, err)
	}

	slots, err := s.repo.ListVisibleCoachingSlots(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaching slots for user %d: %w", userID, err)
	}

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return s.source.Normalize(sessions, slots, courses), nil
}

// dropMalformed skips events that cannot be rendered sensibly: end
// before start, or an empty title. One bad row must not break every
// subscriber's feed. Zero-duration events pass through.
func (s *Service) dropMalformed(events []domain.Event) []domain.Event {
	kept := events[:0:0]
	for _, e := range events {
		if e.Title == "" || e.End.Before(e.Start) {
			s.log.Warn("Skipping malformed event",
				zap.Int64("event_id", e.ID),
				zap.String("kind", string(e.Kind)),
				zap.Time("start", e.Start),
				zap.Time("end", e.End))
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// wallNow returns the current time as a wall-clock value in the feed
// timezone, comparable against event times from the schedule store.
func (s *Service) wallNow() time.Time {
	now := s.now()
	if loc, err := time.LoadLocation(ical.TZID); err == nil {
		now = now.In(loc)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
}
