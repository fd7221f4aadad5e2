package story

import (
	"reflect"
	"testing"
	"time"
)

func TestDecodeIDs(t *testing.T) {
	tests := []struct {
		input    string
		want     []int
		warnings int
	}{
		{"[1,2,3]", []int{1, 2, 3}, 0},
		{" [ 10 , 20 ]\n", []int{10, 20}, 0},
		{"[1,abc,3]", []int{1, 3}, 1},
		{"[1,,2]", []int{1, 2}, 1},
		{"[x,y]", []int{}, 2},
		{"[]", []int{}, 0},
		{"null", []int{}, 0},
		{"", []int{}, 0},
	}
	for _, tt := range tests {
		got, warnings := DecodeIDs([]byte(tt.input))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodeIDs(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if len(warnings) != tt.warnings {
			t.Errorf("DecodeIDs(%q): expected %d warnings, got %d: %v", tt.input, tt.warnings, len(warnings), warnings)
		}
	}
}

func TestDecodeIDsWarningNamesToken(t *testing.T) {
	_, warnings := DecodeIDs([]byte("[7,oops]"))
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Token != "oops" {
		t.Errorf("expected token %q, got %q", "oops", warnings[0].Token)
	}
	if warnings[0].Err == nil {
		t.Error("expected underlying parse error")
	}
}

func TestDecodeItemFull(t *testing.T) {
	payload := `{"by":"pg","descendants":71,"id":8863,"kids":[8952,9224],"score":111,"time":1175714200,"title":"My YC app: Dropbox","type":"story","url":"http://www.getdropbox.com/u/2/screencast.html"}`

	got, warnings := DecodeItem(8863, []byte(payload))
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := Story{
		ID:           8863,
		Title:        "My YC app: Dropbox",
		URL:          "http://www.getdropbox.com/u/2/screencast.html",
		PostedBy:     "pg",
		Time:         time.Unix(1175714200, 0).UTC(),
		Score:        111,
		CommentCount: 71,
	}
	if got != want {
		t.Errorf("DecodeItem = %+v, want %+v", got, want)
	}
	if got.Time.Location() != time.UTC {
		t.Errorf("expected UTC time, got %v", got.Time.Location())
	}
}

func TestDecodeItemMissingURLAndDescendants(t *testing.T) {
	payload := `{"by":"alice","score":42,"time":1700000000,"title":"Ask HN: Something?","type":"story"}`

	got, warnings := DecodeItem(1, []byte(payload))
	if len(warnings) != 0 {
		t.Fatalf("missing fields should not warn, got %v", warnings)
	}
	if got.Title != "Ask HN: Something?" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if got.PostedBy != "alice" {
		t.Errorf("unexpected postedBy %q", got.PostedBy)
	}
	if got.Score != 42 {
		t.Errorf("unexpected score %d", got.Score)
	}
	if !got.Time.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected time %v", got.Time)
	}
	if got.URL != "" {
		t.Errorf("expected empty url, got %q", got.URL)
	}
	if got.CommentCount != 0 {
		t.Errorf("expected 0 comments, got %d", got.CommentCount)
	}
}

func TestDecodeItemFieldOrderIrrelevant(t *testing.T) {
	a, _ := DecodeItem(1, []byte(`{"title":"T","score":5,"by":"u"}`))
	b, _ := DecodeItem(1, []byte(`{"by":"u","score":5,"title":"T"}`))
	if a != b {
		t.Errorf("field order changed result: %+v vs %+v", a, b)
	}
}

func TestDecodeItemIgnoresNestedFields(t *testing.T) {
	payload := `{"meta":{"title":"nested","score":999,"by":"intruder"},"title":"outer","score":3}`

	got, _ := DecodeItem(2, []byte(payload))
	if got.Title != "outer" {
		t.Errorf("expected top-level title, got %q", got.Title)
	}
	if got.Score != 3 {
		t.Errorf("expected top-level score, got %d", got.Score)
	}
	if got.PostedBy != "" {
		t.Errorf("nested by leaked into record: %q", got.PostedBy)
	}
}

func TestDecodeItemWrongShapeFallsBackToZero(t *testing.T) {
	payload := `{"title":"ok","score":"lots","time":"yesterday","descendants":1.5}`

	got, warnings := DecodeItem(3, []byte(payload))
	if got.Title != "ok" {
		t.Errorf("expected title to survive, got %q", got.Title)
	}
	if got.Score != 0 || got.CommentCount != 0 || got.HasTime() {
		t.Errorf("expected zero values for malformed fields, got %+v", got)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
	fields := map[string]bool{}
	for _, w := range warnings {
		fields[w.Field] = true
	}
	for _, f := range []string{"score", "time", "descendants"} {
		if !fields[f] {
			t.Errorf("expected warning for %s", f)
		}
	}
}

func TestDecodeItemNull(t *testing.T) {
	got, warnings := DecodeItem(9, []byte("null"))
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if got != (Story{ID: 9}) {
		t.Errorf("expected bare story, got %+v", got)
	}
}

func TestDecodeItemNotAnObject(t *testing.T) {
	got, warnings := DecodeItem(4, []byte(`<html>bad gateway</html>`))
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if got != (Story{ID: 4}) {
		t.Errorf("expected bare story, got %+v", got)
	}
}

func TestDecodeItemRepeatedKeyKeepsFirst(t *testing.T) {
	got, warnings := DecodeItem(5, []byte(`{"title":"first","score":1,"title":"second","score":2}`))
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if got.Title != "first" || got.Score != 1 {
		t.Errorf("expected first occurrence to win, got %+v", got)
	}
}

func TestDecodeItemMalformedObject(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated", `{"title":"cut off","sco`},
		{"array", `[1,2,3]`},
		{"trailing data", `{"title":"a"} {"title":"b"}`},
	}
	for _, tt := range tests {
		got, warnings := DecodeItem(6, []byte(tt.payload))
		if len(warnings) != 1 || warnings[0].Field != "item" {
			t.Errorf("%s: expected one item warning, got %v", tt.name, warnings)
		}
		if got != (Story{ID: 6}) {
			t.Errorf("%s: expected bare story, got %+v", tt.name, got)
		}
	}
}

func TestRankedStories(t *testing.T) {
	r := Ranked{
		{ID: 2, Story: Story{ID: 2, Score: 90}},
		{ID: 1, Story: Story{ID: 1, Score: 50}},
	}
	got := r.Stories()
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("unexpected stories: %+v", got)
	}
}
