package render

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matheuskafuri/hnbest/internal/story"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const maxTitleWidth = 60

type tableRenderer struct {
	now func() time.Time
}

func (r tableRenderer) Render(w io.Writer, stories story.Ranked) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	now := r.now()
	rows := make([][]string, 0, len(stories))
	for i, p := range stories {
		s := p.Story
		age := "-"
		if s.HasTime() {
			age = humanize.RelTime(s.Time, now, "ago", "from now")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			humanize.Comma(int64(s.Score)),
			humanize.Comma(int64(s.CommentCount)),
			s.PostedBy,
			age,
			truncate(s.Title, maxTitleWidth),
			s.URL,
		})
	}

	table.Header([]string{"rank", "score", "comments", "by", "age", "title", "url"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
