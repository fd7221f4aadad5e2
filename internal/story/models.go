package story

import "time"

// Story is one resolved item from the best stories list. Values are built in a
// single decode pass and never mutated afterwards.
type Story struct {
	ID           int       `json:"id"`
	Title        string    `json:"title,omitempty"`
	URL          string    `json:"url,omitempty"`
	PostedBy     string    `json:"postedBy,omitempty"`
	Time         time.Time `json:"time"`
	Score        int       `json:"score"`
	CommentCount int       `json:"commentCount"`
}

// HasTime reports whether the upstream payload carried a timestamp.
func (s Story) HasTime() bool {
	return !s.Time.IsZero()
}

// Pair ties a story to the id it was requested under.
type Pair struct {
	ID    int
	Story Story
}

// Ranked is an ordered list of pairs, highest score first.
type Ranked []Pair

// Stories returns the stories in ranked order.
func (r Ranked) Stories() []Story {
	out := make([]Story, len(r))
	for i, p := range r {
		out[i] = p.Story
	}
	return out
}
