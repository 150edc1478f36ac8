package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message,omitempty" example:"calendar feed not found"`
}

// UpcomingEventResponse represents one entry of the upcoming-events summary
type UpcomingEventResponse struct {
	ID         int64  `json:"id" example:"42"`
	Kind       string `json:"kind" example:"lecture"`
	CourseID   int64  `json:"course_id" example:"7"`
	Title      string `json:"title" example:"Data Science"`
	Date       string `json:"date" example:"2025-10-03"`
	StartTime  string `json:"start_time" example:"15:45"`
	EndTime    string `json:"end_time" example:"19:15"`
	Location   string `json:"location" example:"B309"`
	Online     bool   `json:"online" example:"false"`
	Attendance string `json:"attendance,omitempty" example:"mandatory"`
}
