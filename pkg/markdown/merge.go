package markdown

import "strings"

// MergeProperties replaces the property table of existing with table.
//
// The region starts at the line equal to TableHeader and runs up to the next
// heading line or the end of the document. Text outside the region is kept
// byte for byte. When no header line exists the document is returned as is
// and changed is false; there is no fallback to regeneration.
func MergeProperties(existing, table string) (merged string, changed bool) {
	start, ok := findHeaderLine(existing)
	if !ok {
		return existing, false
	}
	end := nextHeading(existing, start)

	newline := "\n"
	if strings.Contains(existing, "\r\n") {
		newline = "\r\n"
		table = strings.ReplaceAll(strings.ReplaceAll(table, "\r\n", "\n"), "\n", "\r\n")
	}

	replacement := table
	if !strings.HasSuffix(replacement, newline) {
		replacement += newline
	}
	// Keep one blank line between the table and the heading that follows.
	if end < len(existing) {
		replacement += newline
	}

	merged = existing[:start] + replacement + existing[end:]
	return merged, merged != existing
}

// HasPropertyTable reports whether MergeProperties can update doc.
func HasPropertyTable(doc string) bool {
	_, ok := findHeaderLine(doc)
	return ok
}

func findHeaderLine(doc string) (int, bool) {
	offset := 0
	for offset <= len(doc) {
		line, next := lineAt(doc, offset)
		if strings.TrimRight(line, " \t\r") == TableHeader {
			return offset, true
		}
		if next < 0 {
			break
		}
		offset = next
	}
	return 0, false
}

// nextHeading returns the offset of the first line after start that begins
// with '#', or len(doc).
func nextHeading(doc string, start int) int {
	_, offset := lineAt(doc, start)
	for offset >= 0 && offset < len(doc) {
		line, next := lineAt(doc, offset)
		if strings.HasPrefix(line, "#") {
			return offset
		}
		offset = next
	}
	return len(doc)
}

// lineAt returns the line beginning at offset without its terminator, and
// the offset of the following line or -1 at end of input.
func lineAt(doc string, offset int) (string, int) {
	rest := doc[offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i], offset + i + 1
	}
	return rest, -1
}
