package model

import (
	"fmt"
	"strings"
)

// Statement represents a run of lines assembled into one logical SQL
// statement, with 1-based start and end positions within its file
type Statement struct {
	Lines     []string
	StartLine int
	EndLine   int
}

// Text returns the statement body with its original line breaks intact.
func (s *Statement) Text() string {
	return strings.Join(s.Lines, "\n")
}

// EventLevel defines the severity of a processing event
type EventLevel string

const (
	EventInfo    EventLevel = "INFO"
	EventWarning EventLevel = "WARNING"
	EventError   EventLevel = "ERROR"
)

// Event represents a single finding emitted while processing a statement
type Event struct {
	Level     EventLevel
	File      string
	StartLine int
	EndLine   int
	Message   string
}

func (e Event) Location() string {
	switch {
	case e.StartLine == 0:
		return e.File
	case e.EndLine > e.StartLine:
		return fmt.Sprintf("%s:%d-%d", e.File, e.StartLine, e.EndLine)
	default:
		return fmt.Sprintf("%s:%d", e.File, e.StartLine)
	}
}

// Edit records the before/after text of one changed statement
type Edit struct {
	File      string
	StartLine int
	Before    string
	After     string
}
