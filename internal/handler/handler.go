package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/dto"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/feed"
)

const defaultUpcomingDays = 7

type Handler struct {
	feedService feed.Servicer
	router      *gin.Engine
	log         *zap.Logger
}

func NewHandler(feedService feed.Servicer, log *zap.Logger) *Handler {
	h := &Handler{
		feedService: feedService,
		router:      gin.Default(),
		log:         log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/api/calendar/:token/feed.ics", h.getFeed)
	h.router.GET("/api/calendar/:token/upcoming", h.getUpcoming)
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.feedService.Healthy(c.Request.Context()); err != nil {
		h.log.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getFeed handles GET /api/calendar/:token/feed.ics, the URL calendar
// clients subscribe to. It answers with a complete calendar document
// or an HTTP error, never a partial file.
func (h *Handler) getFeed(c *gin.Context) {
	tok := c.Param("token")

	result, err := h.feedService.Feed(c.Request.Context(), tok)
	if err != nil {
		h.writeFeedError(c, err)
		return
	}

	h.log.Info("Calendar feed served",
		zap.Int("bytes", len(result.Body)))

	c.Data(http.StatusOK, result.ContentType, []byte(result.Body))
}

// getUpcoming handles GET /api/calendar/:token/upcoming?days=N, the
// JSON summary backing the dashboard's "next days" widget.
func (h *Handler) getUpcoming(c *gin.Context) {
	tok := c.Param("token")

	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: "days must be a non-negative integer",
			})
			return
		}
		days = parsed
	}

	events, err := h.feedService.Upcoming(c.Request.Context(), tok, days)
	if err != nil {
		h.writeFeedError(c, err)
		return
	}

	response := make([]dto.UpcomingEventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, toUpcomingResponse(e))
	}

	c.JSON(http.StatusOK, response)
}

// writeFeedError maps service errors onto the boundary contract: an
// unresolvable token is a plain 404 with no detail, everything else is
// a server error.
func (h *Handler) writeFeedError(c *gin.Context, err error) {
	if errors.Is(err, feed.ErrTokenNotFound) {
		h.log.Warn("Calendar feed not found")
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "not_found",
		})
		return
	}

	h.log.Error("Failed to build calendar feed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "internal_error",
	})
}

func toUpcomingResponse(e domain.Event) dto.UpcomingEventResponse {
	attendance := string(e.Attendance)
	if e.Kind == domain.KindCoaching {
		attendance = ""
	}

	return dto.UpcomingEventResponse{
		ID:         e.ID,
		Kind:       string(e.Kind),
		CourseID:   e.CourseID,
		Title:      e.Title,
		Date:       e.DayKey(),
		StartTime:  e.Start.Format("15:04"),
		EndTime:    e.End.Format("15:04"),
		Location:   e.Location,
		Online:     e.LocationType == domain.LocationOnline,
		Attendance: attendance,
	}
}
