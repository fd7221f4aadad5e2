package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DecodeWarning describes a token or field that could not be parsed. The
// affected value is skipped or left at its zero value.
type DecodeWarning struct {
	Field string
	Token string
	Err   error
}

func (w DecodeWarning) Error() string {
	if w.Field == "" {
		return fmt.Sprintf("skipping token %q: %v", w.Token, w.Err)
	}
	return fmt.Sprintf("field %s: cannot decode %q: %v", w.Field, w.Token, w.Err)
}

func (w DecodeWarning) Unwrap() error { return w.Err }

// DecodeIDs parses a bracketed, comma separated list of integers such as
// "[1,2,3]". Tokens that are not integers are skipped and reported; the valid
// ids keep their upstream order.
func DecodeIDs(payload []byte) ([]int, []DecodeWarning) {
	body := strings.TrimSpace(string(payload))
	if body == "" || body == "null" {
		return []int{}, nil
	}
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")
	if strings.TrimSpace(body) == "" {
		return []int{}, nil
	}

	var (
		ids      []int
		warnings []DecodeWarning
	)
	for _, tok := range strings.Split(body, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			warnings = append(warnings, DecodeWarning{Token: tok, Err: err})
			continue
		}
		ids = append(ids, n)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, warnings
}

// DecodeItem builds a Story from a single item payload. Each known top-level
// field is decoded on its own; a field with an unexpected shape is left at its
// zero value and reported. Missing fields are normal and not reported. A null
// payload (deleted or unknown item) yields a Story carrying only its id.
func DecodeItem(id int, payload []byte) (Story, []DecodeWarning) {
	s := Story{ID: id}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return s, nil
	}

	fields, err := topLevelFields(trimmed)
	if err != nil {
		return s, []DecodeWarning{{Field: "item", Token: abbreviate(string(trimmed)), Err: err}}
	}

	var (
		warnings []DecodeWarning
		unix     int64
	)
	decode := func(name string, dst any) bool {
		raw, ok := fields[name]
		if !ok || bytes.Equal(raw, []byte("null")) {
			return false
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			warnings = append(warnings, DecodeWarning{Field: name, Token: abbreviate(string(raw)), Err: err})
			return false
		}
		return true
	}

	decode("title", &s.Title)
	decode("by", &s.PostedBy)
	decode("url", &s.URL)
	decode("score", &s.Score)
	decode("descendants", &s.CommentCount)
	if decode("time", &unix) {
		s.Time = time.Unix(unix, 0).UTC()
	}
	return s, warnings
}

// topLevelFields returns the raw value of every top-level key of a JSON
// object. A repeated key keeps its first value.
func topLevelFields(payload []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if _, seen := fields[key]; !seen {
			fields[key] = raw
		}
	}

	// Closing brace, then nothing else.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after object")
	}
	return fields, nil
}

func abbreviate(s string) string {
	const limit = 64
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
