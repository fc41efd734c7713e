// Package calendar finds the iCalendar document a scheduling collaborator
// embeds in its reply, validates it and writes it to disk.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	beginMarker = "BEGIN:VCALENDAR"
	endMarker   = "END:VCALENDAR"
)

// ErrNoEvents is returned by Normalize for a calendar without any VEVENT.
var ErrNoEvents = errors.New("calendar has no events")

// Locate returns the text from BEGIN:VCALENDAR through the last
// END:VCALENDAR, or false if either marker is missing.
func Locate(text string) (string, bool) {
	start := strings.Index(text, beginMarker)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, endMarker)
	if end < start {
		return "", false
	}
	return text[start : end+len(endMarker)], true
}

// Normalize parses an iCalendar document and re-serializes it. Collaborator
// output often arrives indented as a block or with LF line endings; the
// indentation shared by every line is removed, so a folded continuation line
// keeps its leading space and is unfolded by the parser.
func Normalize(doc string) (string, error) {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	// Locate cuts the first line at its marker, so only the rest carry the
	// block's indentation.
	indent := ""
	if len(lines) > 1 {
		indent = commonIndent(lines[1:])
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, indent)
	}
	// Trailing blanks before a fold are part of the value.
	for i, l := range lines {
		if i+1 < len(lines) && folded(lines[i+1]) {
			continue
		}
		lines[i] = strings.TrimRight(l, " \t")
	}
	cleaned := strings.Join(lines, "\r\n") + "\r\n"

	cal, err := ics.ParseCalendar(strings.NewReader(cleaned))
	if err != nil {
		return "", fmt.Errorf("parse calendar: %w", err)
	}
	if len(cal.Events()) == 0 {
		return "", ErrNoEvents
	}
	return cal.Serialize(), nil
}

// commonIndent returns the leading whitespace every line starts with.
func commonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	indent := lines[0][:len(lines[0])-len(strings.TrimLeft(lines[0], " \t"))]
	for _, l := range lines[1:] {
		n := 0
		for n < len(indent) && n < len(l) && indent[n] == l[n] {
			n++
		}
		indent = indent[:n]
	}
	return indent
}

func folded(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// Writer stores calendars as timestamped files in one directory.
type Writer struct {
	Dir string
	Now func() time.Time
}

// NewWriter returns a Writer for dir using the wall clock.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// Write stores content as learning-schedule-YYYYMMDD-HHMMSS.ics and returns
// the path. An existing file with the same name is never overwritten.
func (w *Writer) Write(content string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create calendar dir: %w", err)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	base := "learning-schedule-" + now().Format("20060102-150405")

	for i := 0; ; i++ {
		name := base + ".ics"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.ics", base, i)
		}
		path := filepath.Join(w.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create calendar file: %w", err)
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			return "", fmt.Errorf("write calendar: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close calendar: %w", err)
		}
		return path, nil
	}
}
