package extractor

import "strings"

type docTag struct {
	Name string
	Text string
}

type docComment struct {
	Text string
	Tags []docTag
}

// parseDocComment splits a /** ... */ block into its summary text and its
// block tags. Tag payloads may continue on following lines.
func parseDocComment(raw string) docComment {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "/**")
	body = strings.TrimSuffix(body, "*/")

	var doc docComment
	var text []string
	var current *docTag

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "@") {
			name, rest, _ := strings.Cut(line[1:], " ")
			doc.Tags = append(doc.Tags, docTag{Name: name, Text: strings.TrimSpace(rest)})
			current = &doc.Tags[len(doc.Tags)-1]
			continue
		}
		if current != nil {
			current.Text = strings.TrimSpace(current.Text + " " + line)
			continue
		}
		text = append(text, line)
	}

	doc.Text = collapseSpace(strings.Join(text, " "))
	return doc
}

func isDocComment(raw string) bool {
	return strings.HasPrefix(raw, "/**") && raw != "/**/"
}

func isLineComment(raw string) bool {
	return strings.HasPrefix(raw, "//")
}

func lineCommentText(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(raw, "//"))
}

// commentText strips the markers of any comment form and flattens it onto
// one line.
func commentText(raw string) string {
	raw = strings.TrimSpace(raw)
	if isLineComment(raw) {
		return lineCommentText(raw)
	}
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimPrefix(raw, "*")
	raw = strings.TrimSuffix(raw, "*/")

	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return collapseSpace(strings.Join(parts, " "))
}
