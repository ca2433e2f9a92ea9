package stream

import "strings"

// MaxFieldChars bounds textual summary fields (tool arguments, tool output,
// reasoning content) so a single SSE frame stays small enough for real-time
// display.
const MaxFieldChars = 200

const ellipsisMarker = "..."

// Truncate caps s at MaxFieldChars runes, appending an ellipsis marker when
// content was dropped. Truncation is idempotent: applying it to an already
// truncated value returns it unchanged.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxFieldChars {
		return s
	}
	if strings.HasSuffix(s, ellipsisMarker) && len(runes) == MaxFieldChars+len(ellipsisMarker) {
		return s
	}
	return string(runes[:MaxFieldChars]) + ellipsisMarker
}
