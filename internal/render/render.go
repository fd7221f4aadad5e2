package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matheuskafuri/hnbest/internal/story"
)

type Format string

const (
	Text  Format = "text"
	JSON  Format = "json"
	Table Format = "table"
)

// ParseFormat maps a flag or config value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, Table:
		return f, nil
	case "":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or table)", s)
	}
}

// Renderer writes a ranked listing.
type Renderer interface {
	Render(w io.Writer, stories story.Ranked) error
}

// New returns the renderer for f. now anchors relative times; nil means time.Now.
func New(f Format, now func() time.Time) Renderer {
	if now == nil {
		now = time.Now
	}
	switch f {
	case JSON:
		return jsonRenderer{}
	case Table:
		return tableRenderer{now: now}
	default:
		return textRenderer{now: now}
	}
}

type jsonStory struct {
	Rank         int        `json:"rank"`
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url,omitempty"`
	PostedBy     string     `json:"postedBy"`
	Time         *time.Time `json:"time,omitempty"`
	Score        int        `json:"score"`
	CommentCount int        `json:"commentCount"`
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, stories story.Ranked) error {
	out := make([]jsonStory, len(stories))
	for i, p := range stories {
		s := p.Story
		out[i] = jsonStory{
			Rank:         i + 1,
			ID:           p.ID,
			Title:        s.Title,
			URL:          s.URL,
			PostedBy:     s.PostedBy,
			Score:        s.Score,
			CommentCount: s.CommentCount,
		}
		if s.HasTime() {
			t := s.Time
			out[i].Time = &t
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
