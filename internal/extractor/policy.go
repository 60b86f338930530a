package extractor

import (
	"strings"

	"github.com/livp123/phaselog/pkg/errors"
)

// StartPolicy decides what a second start line for the same PID does.
// StartPolicy 决定同一 PID 的第二条 start 行如何处理。
type StartPolicy string

const (
	// StartFirst keeps the first header and ignores later start lines.
	StartFirst StartPolicy = "first"
	// StartRepeat writes a header for every start line where it appears.
	StartRepeat StartPolicy = "repeat"
	// StartStrict fails the run on a second start line.
	StartStrict StartPolicy = "strict"
)

// ParseStartPolicy validates a policy name. Empty means StartFirst.
func ParseStartPolicy(s string) (StartPolicy, error) {
	switch p := StartPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return StartFirst, nil
	case StartFirst, StartRepeat, StartStrict:
		return p, nil
	default:
		return "", errors.NewPolicyError("start_policy", s)
	}
}

// NameRule selects how the display name is cut out of the text preceding
// the start marker.
// NameRule 决定如何从 start 标记之前的文本中截取进程名。
type NameRule string

const (
	// NameLastField keeps the text after the last space: "Jan 1 host proc" -> "proc".
	NameLastField NameRule = "last-field"
	// NameAfterFirstField drops everything up to and including the first
	// space: "Jan 1 host proc" -> "1 host proc".
	NameAfterFirstField NameRule = "after-first-field"
)

// ParseNameRule validates a rule name. Empty means NameLastField.
func ParseNameRule(s string) (NameRule, error) {
	switch r := NameRule(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return NameLastField, nil
	case NameLastField, NameAfterFirstField:
		return r, nil
	default:
		return "", errors.NewPolicyError("name_rule", s)
	}
}

// Name applies the rule to prefix. A prefix without any space is returned whole.
func (r NameRule) Name(prefix string) string {
	if r == NameAfterFirstField {
		if _, after, ok := strings.Cut(prefix, " "); ok {
			return after
		}
		return prefix
	}
	if i := strings.LastIndexByte(prefix, ' '); i >= 0 {
		return prefix[i+1:]
	}
	return prefix
}
