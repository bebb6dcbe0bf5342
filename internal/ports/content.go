package ports

import (
	"context"
	"time"
)

// Post is the minimal feed item shape the session core needs to pass
// through. The content data model itself is owned by the content API.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedLister is the consumer-side view of the external content API. A 401
// from any call surfaces as domain auth.ErrUnauthorized and must be routed
// through the session machine's forced logout, never handled per call site.
type FeedLister interface {
	ListFeed(ctx context.Context, credential string) ([]Post, error)
}
