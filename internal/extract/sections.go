// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// heading is a top-level markdown heading with the byte range of its line.
type heading struct {
	level     int
	title     string
	lineStart int
	lineEnd   int
}

// Section returns the body of the first level-2 heading whose text equals
// name or starts with it ("Results" finds "Results Summary"). The body runs
// to the next heading of level 2 or higher and is trimmed. An empty or
// missing section reports false.
func Section(source []byte, name string) (string, bool) {
	headings := scanHeadings(source)
	for i, h := range headings {
		if h.level != 2 || !strings.HasPrefix(h.title, name) {
			continue
		}
		end := len(source)
		for _, next := range headings[i+1:] {
			if next.level <= 2 {
				end = next.lineStart
				break
			}
		}
		body := strings.TrimSpace(string(source[h.lineEnd:end]))
		return body, body != ""
	}
	return "", false
}

// scanHeadings parses source with goldmark and returns its top-level
// headings in document order. For setext headings the range covers the
// underline too.
func scanHeadings(source []byte) []heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var out []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			continue
		}
		var title bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			title.Write(seg.Value(source))
		}

		first, last := lines.At(0), lines.At(lines.Len()-1)
		lineStart := bytes.LastIndexByte(source[:first.Start], '\n') + 1
		stop := last.Stop
		if stop > 0 && source[stop-1] == '\n' {
			stop--
		}
		lineEnd := nextLine(source, stop)
		if !isATX(source[lineStart:]) {
			lineEnd = nextLine(source, lineEnd)
		}
		out = append(out, heading{
			level:     h.Level,
			title:     strings.TrimSpace(title.String()),
			lineStart: lineStart,
			lineEnd:   lineEnd,
		})
	}
	return out
}

// nextLine returns the offset just past the newline at or after pos.
func nextLine(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	if nl := bytes.IndexByte(source[pos:], '\n'); nl >= 0 {
		return pos + nl + 1
	}
	return len(source)
}

func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}
