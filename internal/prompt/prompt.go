package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Question is shown whenever the story count has to be asked for.
const Question = "Enter the number of top stories (n): "

// ErrAborted is returned when the operator quits the prompt without answering.
var ErrAborted = errors.New("prompt aborted")

// ValidationError rejects operator input before any work starts.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// ParseCount accepts a positive decimal integer, surrounding space allowed.
func ParseCount(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &ValidationError{Input: s, Reason: "please enter a positive integer"}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ValidationError{Input: s, Reason: "not a whole number"}
	}
	if n <= 0 {
		return 0, &ValidationError{Input: s, Reason: "must be greater than zero"}
	}
	return n, nil
}

// Ask writes the question to w and parses a single line from r.
// Used when stdin is not a terminal.
func Ask(r io.Reader, w io.Writer) (int, error) {
	fmt.Fprint(w, Question)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading count: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return 0, ErrAborted
	}
	return ParseCount(line)
}
