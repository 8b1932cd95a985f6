package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseSummary extracts a SummaryData from a raw model response.
// Models regularly wrap their answer in code fences or surround it with
// prose despite being told not to, so parsing falls back in stages:
// strip fences, strict parse, then scan for the first balanced object.
func parseSummary(raw string) (SummaryData, error) {
	cleaned := stripCodeFence(raw)

	if summary, err := parseStrict(cleaned); err == nil {
		return summary, nil
	}

	rest := raw
	for {
		span, next, ok := firstBalancedObject(rest)
		if !ok {
			return SummaryData{}, fmt.Errorf("no parseable JSON object found in response")
		}
		if summary, err := parseStrict(span); err == nil {
			return summary, nil
		}
		rest = rest[next:]
	}
}

// parseStrict requires a JSON object carrying all four summary fields.
func parseStrict(s string) (SummaryData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return SummaryData{}, err
	}

	for _, key := range []string{"overview", "key_points", "action_items", "decisions"} {
		if _, ok := fields[key]; !ok {
			return SummaryData{}, fmt.Errorf("missing required field %q", key)
		}
	}

	var summary SummaryData
	if err := json.Unmarshal([]byte(s), &summary); err != nil {
		return SummaryData{}, err
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.ActionItems == nil {
		summary.ActionItems = []string{}
	}
	if summary.Decisions == nil {
		summary.Decisions = []string{}
	}
	return summary, nil
}

// stripCodeFence removes a single surrounding ```/```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag on the opening fence line
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// firstBalancedObject returns the first {...} span with balanced braces,
// skipping braces inside JSON strings, along with the offset just past
// the span's opening brace so a caller can resume the scan.
func firstBalancedObject(s string) (span string, next int, ok bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", 0, false
	}
	next = start + 1

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], next, true
			}
		}
	}
	return "", next, false
}
