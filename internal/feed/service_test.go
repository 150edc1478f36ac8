package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/repository"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/token"
)

const testSecret = "unit-test-secret"

// MockScheduleRepository is a mock implementation of repository.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockScheduleRepository) ListVisibleSessions(ctx context.Context, userID int64) ([]repository.SessionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SessionRecord), args.Error(1)
}

func (m *MockScheduleRepository) ListVisibleCoachingSlots(ctx context.Context, userID int64) ([]repository.CoachingSlotRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CoachingSlotRecord), args.Error(1)
}

func (m *MockScheduleRepository) ListCourses(ctx context.Context) ([]repository.CourseRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CourseRecord), args.Error(1)
}

func (m *MockScheduleRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockScheduleRepository) Close() {
	m.Called()
}

func newTestService(t *testing.T, repo *MockScheduleRepository) *Service {
	t.Helper()

	auth, err := token.NewAuthority(testSecret, 100)
	assert.NoError(t, err)

	svc := NewService(repo, auth, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func userToken(t *testing.T, userID int64) string {
	t.Helper()

	tok, err := token.Derive(userID, testSecret)
	assert.NoError(t, err)
	return tok
}

func testFixtures() ([]domain.User, []repository.SessionRecord, []repository.CoachingSlotRecord, []repository.CourseRecord) {
	users := []domain.User{
		{ID: 1, Name: "Anna Berger", Program: "Digital Business", Role: "student"},
		{ID: 2, Name: "Jonas Pichler", Program: "Digital Business", Role: "student"},
	}
	sessions := []repository.SessionRecord{
		{
			ID:         12,
			CourseID:   7,
			Title:      "Data Science",
			Type:       "lecture",
			StartsAt:   time.Date(2025, 10, 3, 15, 45, 0, 0, time.UTC),
			EndsAt:     time.Date(2025, 10, 3, 19, 15, 0, 0, time.UTC),
			Location:   "B309",
			Attendance: "mandatory",
			UpdatedAt:  time.Date(2025, 9, 20, 8, 0, 0, 0, time.UTC),
		},
	}
	slots := []repository.CoachingSlotRecord{
		{
			ID:         31,
			CourseID:   7,
			LecturerID: 9,
			StartsAt:   time.Date(2025, 10, 28, 18, 30, 0, 0, time.UTC),
			EndsAt:     time.Date(2025, 10, 28, 19, 15, 0, 0, time.UTC),
			Location:   "B212",
			UpdatedAt:  time.Date(2025, 9, 21, 10, 0, 0, 0, time.UTC),
		},
	}
	courses := []repository.CourseRecord{{ID: 7, Title: "Data Science", Program: "Digital Business"}}

	return users, sessions, slots, courses
}

func TestFeed_GeneratesDocument(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	users, sessions, slots, courses := testFixtures()
	repo.On("ListUsers", mock.Anything).Return(users, nil)
	repo.On("ListVisibleSessions", mock.Anything, int64(1)).Return(sessions, nil)
	repo.On("ListVisibleCoachingSlots", mock.Anything, int64(1)).Return(slots, nil)
	repo.On("ListCourses", mock.Anything).Return(courses, nil)

	result, err := svc.Feed(context.Background(), userToken(t, 1))

	assert.NoError(t, err)
	assert.Equal(t, "text/calendar; charset=utf-8", result.ContentType)
	assert.Equal(t, 2, strings.Count(result.Body, "BEGIN:VEVENT"))
	assert.Contains(t, result.Body, "SUMMARY:Data Science Coaching")
	assert.Contains(t, result.Body, "LOCATION:Online")
	assert.Contains(t, result.Body, "UID:fhwien-dashboard-lecture-12@fhwien.ac.at")
	assert.Contains(t, result.Body, "UID:fhwien-dashboard-coaching-31@fhwien.ac.at")
	repo.AssertExpectations(t)
}

func TestFeed_StableAcrossRegeneration(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	users, sessions, slots, courses := testFixtures()
	repo.On("ListUsers", mock.Anything).Return(users, nil)
	repo.On("ListVisibleSessions", mock.Anything, int64(1)).Return(sessions, nil)
	repo.On("ListVisibleCoachingSlots", mock.Anything, int64(1)).Return(slots, nil)
	repo.On("ListCourses", mock.Anything).Return(courses, nil)

	first, err := svc.Feed(context.Background(), userToken(t, 1))
	assert.NoError(t, err)

	second, err := svc.Feed(context.Background(), userToken(t, 1))
	assert.NoError(t, err)

	// With unchanged source data and a pinned clock the document is
	// byte-identical, so UIDs and SEQUENCEs cannot have drifted.
	assert.Equal(t, first.Body, second.Body)
}

func TestFeed_MalformedToken(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	for _, tok := range []string{
		"",
		"abc",
		userToken(t, 1)[:31],
		strings.Repeat("x", 32),
	} {
		_, err := svc.Feed(context.Background(), tok)
		assert.ErrorIs(t, err, ErrTokenNotFound, "token %q", tok)
	}

	// Shape rejection happens before the user list is ever fetched.
	repo.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestFeed_UnknownToken(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	users, _, _, _ := testFixtures()
	repo.On("ListUsers", mock.Anything).Return(users, nil)

	// Well-formed token of a user that does not exist.
	_, err := svc.Feed(context.Background(), userToken(t, 404))

	assert.ErrorIs(t, err, ErrTokenNotFound)
	repo.AssertNotCalled(t, "ListVisibleSessions", mock.Anything, mock.Anything)
}

func TestFeed_RepositoryFailure(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	repo.On("ListUsers", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Feed(context.Background(), userToken(t, 1))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotFound, "an infrastructure failure must not read as a missing token")
}

func TestFeed_SkipsMalformedEvents(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	users, sessions, slots, courses := testFixtures()
	sessions = append(sessions, repository.SessionRecord{
		ID:       13,
		CourseID: 7,
		Title:    "Inverted Session",
		Type:     "lecture",
		StartsAt: time.Date(2025, 10, 4, 12, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 10, 4, 10, 0, 0, 0, time.UTC),
	})

	repo.On("ListUsers", mock.Anything).Return(users, nil)
	repo.On("ListVisibleSessions", mock.Anything, int64(1)).Return(sessions, nil)
	repo.On("ListVisibleCoachingSlots", mock.Anything, int64(1)).Return(slots, nil)
	repo.On("ListCourses", mock.Anything).Return(courses, nil)

	result, err := svc.Feed(context.Background(), userToken(t, 1))

	assert.NoError(t, err)
	assert.Equal(t, 2, strings.Count(result.Body, "BEGIN:VEVENT"), "the inverted event is skipped, the rest survives")
	assert.NotContains(t, result.Body, "Inverted Session")
}

func TestUpcoming_FiltersAndResolves(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	users, sessions, slots, courses := testFixtures()
	repo.On("ListUsers", mock.Anything).Return(users, nil)
	repo.On("ListVisibleSessions", mock.Anything, int64(1)).Return(sessions, nil)
	repo.On("ListVisibleCoachingSlots", mock.Anything, int64(1)).Return(slots, nil)
	repo.On("ListCourses", mock.Anything).Return(courses, nil)

	// Clock pinned to 2025-10-01: the lecture on the 3rd is inside the
	// 7-day window, the coaching slot on the 28th is not.
	events, err := svc.Upcoming(context.Background(), userToken(t, 1), 7)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int64(12), events[0].ID)
	assert.Equal(t, domain.KindLecture, events[0].Kind)
}

func TestHealthy(t *testing.T) {
	repo := new(MockScheduleRepository)
	svc := newTestService(t, repo)

	repo.On("Ping", mock.Anything).Return(nil)

	assert.NoError(t, svc.Healthy(context.Background()))
	repo.AssertExpectations(t)
}
