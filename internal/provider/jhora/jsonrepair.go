package jhora

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNoRepair = errors.New("could not repair malformed json payload")

// repairJSON recovers a parseable object from a truncated or garbled
// payload. It locates the first '{', then scans tracking brace depth and
// attempts a parse at every point depth returns to zero; the first prefix
// that parses wins. One pass only, no retries.
func repairJSON(payload []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	start := bytes.IndexByte(trimmed, '{')
	if start == -1 {
		return nil, errNoRepair
	}
	candidate := trimmed[start:]

	depth := 0
	for i := 0; i < len(candidate); i++ {
		switch candidate[i] {
		case '{':
			depth++
		case '}':
			depth--
		default:
			continue
		}
		if depth == 0 {
			prefix := candidate[:i+1]
			if json.Valid(prefix) {
				return json.RawMessage(prefix), nil
			}
		}
	}
	return nil, errNoRepair
}
