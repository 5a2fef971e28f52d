package recommend

import (
	"encoding/json"
	"errors"
	"strings"
)

// scoreEntry is one oracle verdict, matched back to a candidate by event ID.
type scoreEntry struct {
	EventID string  `json:"event_id"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// parseScoreArray recovers a score array from raw model output. Tolerated
// artifacts, in order of application:
//   - markdown code fences around the payload
//   - prose before or after the array
//   - trailing commas before a closing bracket or brace
//   - a response truncated mid-array, from which only the fully-formed
//     leading elements are salvaged
//
// An error means no usable entry could be recovered at all.
func parseScoreArray(raw string) ([]scoreEntry, error) {
	text := stripFences(raw)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty scoring response")
	}

	// Each '[' is a candidate array start; the first one that yields entries
	// wins. Prose ahead of the array may itself contain brackets.
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '[')
		if idx < 0 {
			break
		}
		start := offset + idx
		if entries := decodeArrayAt(text[start:]); len(entries) > 0 {
			return entries, nil
		}
		offset = start + 1
	}

	return nil, errors.New("no score entries recovered from response")
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(text, "```")
	text = strings.Trim(text, "`")
	return strings.TrimSpace(strings.TrimPrefix(text, "json"))
}

// decodeArrayAt decodes the array beginning at text[0] == '[', returning every
// fully-formed object element that unmarshals into a scoreEntry. Truncation
// simply ends the walk with whatever was complete.
func decodeArrayAt(text string) []scoreEntry {
	var out []scoreEntry
	for _, obj := range topLevelObjects(text) {
		var entry scoreEntry
		if err := json.Unmarshal([]byte(removeTrailingCommas(obj)), &entry); err != nil {
			continue
		}
		if entry.EventID == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// topLevelObjects walks the array body and returns each complete top-level
// `{...}` substring, stopping at the array's closing bracket or at the end of
// a truncated input.
func topLevelObjects(text string) []string {
	var (
		objects  []string
		objStart = -1
		depth    int
		inString bool
		escaped  bool
	)
	for i := 1; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				objStart = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && objStart >= 0 {
					objects = append(objects, text[objStart:i+1])
					objStart = -1
				}
			}
		case ']':
			if depth == 0 {
				return objects
			}
		}
	}
	return objects
}

// removeTrailingCommas drops commas that directly precede a closing bracket
// or brace, a known artifact of some models. String contents are preserved.
func removeTrailingCommas(text string) string {
	var (
		b        strings.Builder
		inString bool
		escaped  bool
	)
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if ch == ',' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
				j++
			}
			if j < len(text) && (text[j] == ']' || text[j] == '}') {
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
