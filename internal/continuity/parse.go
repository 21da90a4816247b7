package continuity

import (
	"bufio"
	"strings"
	"unicode"
)

// Field is an optional value extracted from a document.
type Field struct {
	Value string
	Found bool
}

// Or returns the field value, or fallback when the field was not found or
// is blank.
func (f Field) Or(fallback string) string {
	if !f.Found || strings.TrimSpace(f.Value) == "" {
		return fallback
	}
	return f.Value
}

// Document is a parsed markdown continuity document.
type Document struct {
	heading  Field
	sections map[string]string
	lines    []string
}

// Parse splits text into its level-one heading and "##" sections. Section
// names are matched ignoring case and any leading emoji or punctuation.
// A section body ends at the next line that starts with "##".
func Parse(text string) Document {
	doc := Document{sections: make(map[string]string)}

	var (
		current string
		body    []string
		open    bool
	)
	flush := func() {
		if open {
			if _, exists := doc.sections[current]; !exists {
				doc.sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
			}
		}
		body = body[:0]
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		doc.lines = append(doc.lines, line)

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "##"):
			flush()
			current = normalizeHeader(strings.TrimLeft(trimmed, "#"))
			open = current != ""
		case strings.HasPrefix(trimmed, "# ") && !doc.heading.Found:
			doc.heading = Field{Value: strings.TrimSpace(trimmed[2:]), Found: true}
		default:
			if open {
				body = append(body, line)
			}
		}
	}
	flush()
	return doc
}

// Heading returns the first level-one heading.
func (d Document) Heading() Field {
	return d.heading
}

// Section returns the trimmed body of the named section.
func (d Document) Section(name string) Field {
	body, ok := d.sections[normalizeHeader(name)]
	return Field{Value: body, Found: ok}
}

// Label returns the text following the first "**name**:" marker.
func (d Document) Label(name string) Field {
	marker := "**" + name + "**:"
	for _, line := range d.lines {
		idx := indexFold(line, marker)
		if idx < 0 {
			continue
		}
		return Field{Value: strings.TrimSpace(line[idx+len(marker):]), Found: true}
	}
	return Field{}
}

func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// normalizeHeader drops leading symbols such as emoji, lowercases, and
// collapses inner whitespace.
func normalizeHeader(header string) string {
	header = strings.TrimLeftFunc(header, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

// nonEmptyLines returns the lines of text that are not blank.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// truncate limits s to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
