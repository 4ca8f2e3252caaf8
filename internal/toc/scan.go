package toc

import (
	"iter"
	"regexp"
	"strings"
)

var (
	headingPattern    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	headingAttrSuffix = regexp.MustCompile(`\{([^{}]*)\}\s*$`)
	attrIDPattern     = regexp.MustCompile(`#([A-Za-z0-9:_\-\.]+)`)
	execOpenPattern   = regexp.MustCompile("^`{3,}\\{[a-zA-Z0-9_-]+[^}]*\\}\\s*$")
	chunkLabelPattern = regexp.MustCompile(`^\s*#\|\s*label\s*:\s*([A-Za-z0-9:_\-\.]+)\s*$`)
	inlineComment     = regexp.MustCompile(`<!--.*?-->`)
)

// scanner states. Comments and fences are opaque regions: inside a fence
// only the matching close delimiter is recognized, inside a comment only
// the end marker.
const (
	stateProse = iota
	stateFence
	stateComment
)

// fenceState records the open delimiter so the close can be matched by
// character and length, not just presence.
type fenceState struct {
	char     byte
	size     int
	inHeader bool // scanning the #| attribute header of an executable block
}

// Extract scans one document's text and returns its headings as a lazy,
// restartable sequence in document order. A front-matter title is yielded
// first as a level-0 record. Extraction never fails: malformed markup
// under-extracts, it does not error. An unterminated fence hides the rest
// of the file; unbalanced markup is never reinterpreted as prose.
func Extract(text string) iter.Seq[HeadingRecord] {
	return func(yield func(HeadingRecord) bool) {
		title, body := splitFrontMatter(strings.Split(text, "\n"))
		if title != "" {
			if !yield(HeadingRecord{Level: 0, Title: title}) {
				return
			}
		}

		// The latest heading stays pending until the next heading or end
		// of input, so a following executable block's label can attach.
		var pending *HeadingRecord
		flush := func() bool {
			if pending == nil {
				return true
			}
			rec := *pending
			pending = nil
			return yield(rec)
		}

		state := stateProse
		var fence fenceState
		for _, raw := range body {
			line := strings.TrimRight(raw, "\r")

			switch state {
			case stateFence:
				if fence.inHeader {
					if m := chunkLabelPattern.FindStringSubmatch(line); m != nil {
						if pending != nil && pending.Label == "" {
							pending.Label = m[1]
						}
						continue
					}
					if !strings.HasPrefix(strings.TrimSpace(line), "#|") {
						fence.inHeader = false
					}
				}
				if closesFence(line, fence) {
					state = stateProse
				}

			case stateComment:
				if strings.Contains(line, "-->") {
					state = stateProse
				}

			default:
				clean := inlineComment.ReplaceAllString(line, "")
				if strings.Contains(clean, "<!--") {
					state = stateComment
					continue
				}
				if f, ok := openFence(clean); ok {
					state = stateFence
					fence = f
					continue
				}
				if m := headingPattern.FindStringSubmatch(clean); m != nil {
					if !flush() {
						return
					}
					rec := HeadingRecord{Level: len(m[1])}
					rec.Title, rec.Label = splitHeadingAttrs(m[2])
					pending = &rec
				}
			}
		}
		flush()
	}
}

// ExtractAll collects the full heading sequence of one document.
func ExtractAll(text string) []HeadingRecord {
	var recs []HeadingRecord
	for rec := range Extract(text) {
		recs = append(recs, rec)
	}
	return recs
}

// splitFrontMatter detects a leading --- delimited block, lifts a simple
// one-line title from it, and returns the remaining body lines. An
// unterminated block is not front matter: the whole file is body.
func splitFrontMatter(lines []string) (string, []string) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			title := ""
			for _, ln := range lines[1:i] {
				if v, ok := strings.CutPrefix(ln, "title:"); ok {
					title = strings.Trim(strings.TrimSpace(v), `"'`)
				}
			}
			return title, lines[i+1:]
		}
	}
	return "", lines
}

// openFence reports whether a line opens a fenced code block: a run of at
// least three backticks or tildes at the start of the line. Backtick
// fences with a {lang ...} attribute open an executable block whose
// attribute header may carry a label.
func openFence(line string) (fenceState, bool) {
	if len(line) < 3 || (line[0] != '`' && line[0] != '~') {
		return fenceState{}, false
	}
	n := delimiterRun(line, line[0])
	if n < 3 {
		return fenceState{}, false
	}
	f := fenceState{char: line[0], size: n}
	if f.char == '`' && execOpenPattern.MatchString(line) {
		f.inHeader = true
	}
	return f, true
}

// closesFence matches a close delimiter against the open one: same
// character, at least the opening run length, nothing but whitespace after.
func closesFence(line string, f fenceState) bool {
	n := delimiterRun(line, f.char)
	return n >= f.size && strings.TrimSpace(line[n:]) == ""
}

func delimiterRun(line string, c byte) int {
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	return n
}

// splitHeadingAttrs strips a trailing {...} attribute block from a heading
// title and extracts the #identifier inside it, if any.
func splitHeadingAttrs(s string) (title, label string) {
	s = strings.TrimSpace(s)
	m := headingAttrSuffix.FindStringSubmatchIndex(s)
	if m == nil {
		return s, ""
	}
	attrs := s[m[2]:m[3]]
	title = strings.TrimSpace(s[:m[0]])
	if id := attrIDPattern.FindStringSubmatch(attrs); id != nil {
		label = id[1]
	}
	return title, label
}
