package datum

import "strings"

// ChunkKind selects the string sub-unit addressed by chunk expressions.
type ChunkKind uint8

const (
	ChunkChar ChunkKind = iota
	ChunkWord
	ChunkItem
	ChunkLine
)

// splitUnits partitions s into the units implied by kind. itemDelim is the
// movie-level itemDelimiter (default ","); line splitting treats \r or \n as
// the separator.
func splitUnits(s string, kind ChunkKind, itemDelim string) []string {
	switch kind {
	case ChunkChar:
		return strings.Split(s, "")
	case ChunkWord:
		return strings.Fields(s)
	case ChunkItem:
		if itemDelim == "" {
			itemDelim = ","
		}
		return strings.Split(s, itemDelim)
	case ChunkLine:
		return strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' })
	default:
		return nil
	}
}

// CountUnits implements `count(s, #kind)`.
func CountUnits(s string, kind ChunkKind, itemDelim string) int32 {
	return int32(len(splitUnits(s, kind, itemDelim)))
}

// Chunk implements the `chunk(str, kind, first, last)` builtin: 1-based,
// inclusive; out-of-range yields empty string; last<first selects the
// first-th unit alone.
func Chunk(s string, kind ChunkKind, first, last int32, itemDelim string) string {
	units := splitUnits(s, kind, itemDelim)
	if first < 1 || int(first) > len(units) {
		return ""
	}
	if last < first {
		return units[first-1]
	}
	if int(last) > len(units) {
		last = int32(len(units))
	}
	selected := units[first-1 : last]
	sep := unitJoinSeparator(kind, itemDelim)
	return strings.Join(selected, sep)
}

func unitJoinSeparator(kind ChunkKind, itemDelim string) string {
	switch kind {
	case ChunkChar:
		return ""
	case ChunkWord:
		return " "
	case ChunkItem:
		if itemDelim == "" {
			return ","
		}
		return itemDelim
	case ChunkLine:
		return "\r"
	default:
		return ""
	}
}

// ContainsStr implements case-insensitive substring search.
func ContainsStr(haystack, needle string) bool {
	return strings.Contains(lower(haystack), lower(needle))
}

// JoinStr concatenates a and b with no separator.
func JoinStr(a, b string) string { return a + b }

// JoinPadStr concatenates a and b with a single space between.
func JoinPadStr(a, b string) string { return a + " " + b }
