package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quizvault/internal/quiz"
)

// ParseSelections parses a comma-separated list of 1-based
// "question=option" pairs such as "1=2,3=1". Options may also be given as
// letters ("1=B"). The result uses 0-based indices.
func ParseSelections(s string) (map[int]int, error) {
	out := map[int]int{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}

	for _, pair := range strings.Split(s, ",") {
		qs, os, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, &quiz.ValidationError{Field: "answers", Message: fmt.Sprintf("%q is not question=option", pair)}
		}
		qn, err := strconv.Atoi(strings.TrimSpace(qs))
		if err != nil || qn < 1 {
			return nil, &quiz.ValidationError{Field: "answers", Message: fmt.Sprintf("invalid question number %q", qs)}
		}
		on, err := parseOption(strings.TrimSpace(os))
		if err != nil {
			return nil, err
		}
		if _, dup := out[qn-1]; dup {
			return nil, &quiz.ValidationError{Field: "answers", Message: fmt.Sprintf("question %d answered twice", qn)}
		}
		out[qn-1] = on
	}
	return out, nil
}

func parseOption(s string) (int, error) {
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && c <= 'z' {
			return int(c - 'a'), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &quiz.ValidationError{Field: "answers", Message: fmt.Sprintf("invalid option %q", s)}
	}
	return n - 1, nil
}
