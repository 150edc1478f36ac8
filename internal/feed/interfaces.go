package feed

import (
	"context"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
)

// Result is a fully serialized calendar document ready to be served.
type Result struct {
	Body        string
	ContentType string
}

// Servicer defines the interface for calendar feed operations
type Servicer interface {
	// Feed builds the complete calendar document for the owner of tok.
	Feed(ctx context.Context, tok string) (*Result, error)

	// Upcoming returns the owner's events within the next days days.
	Upcoming(ctx context.Context, tok string, days int) ([]domain.Event, error)

	// Healthy checks the data dependency.
	Healthy(ctx context.Context) error
}
