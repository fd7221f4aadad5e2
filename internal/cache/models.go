package cache

import (
	"time"

	"github.com/matheuskafuri/hnbest/internal/story"
)

// Entry pairs a story with the UTC instant it was fetched.
type Entry struct {
	Story     story.Story
	FetchedAt time.Time
}

// Age is the time elapsed between the fetch and now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Fresh reports whether the entry may still be served for the given TTL.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) <= ttl
}
