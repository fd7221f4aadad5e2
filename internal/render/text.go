package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/matheuskafuri/hnbest/internal/story"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
)

// textRenderer prints the bracketed field listing, one block per story.
type textRenderer struct {
	now func() time.Time
}

func (r textRenderer) Render(w io.Writer, stories story.Ranked) error {
	// A renderer bound to w drops colors when w is not a terminal.
	lr := lipgloss.NewRenderer(w)
	keyStyle := lr.NewStyle().Foreground(colorDim)
	titleStyle := lr.NewStyle().Foreground(colorPrimary).Bold(true)
	scoreStyle := lr.NewStyle().Foreground(colorGreen)

	now := r.now()
	var b strings.Builder
	b.WriteString("[\n")
	for _, p := range stories {
		s := p.Story
		field := func(key, value string) {
			fmt.Fprintf(&b, "    %s %s,\n", keyStyle.Render(key+":"), value)
		}
		b.WriteString("  {\n")
		field("title", titleStyle.Render(s.Title))
		field("url", s.URL)
		field("postedBy", s.PostedBy)
		field("time", formatTime(s, now))
		field("score", scoreStyle.Render(humanize.Comma(int64(s.Score))))
		field("commentCount", humanize.Comma(int64(s.CommentCount)))
		b.WriteString("  }\n")
	}
	b.WriteString("]\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatTime(s story.Story, now time.Time) string {
	if !s.HasTime() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)", s.Time.UTC().Format(timeLayout), humanize.RelTime(s.Time, now, "ago", "from now"))
}
