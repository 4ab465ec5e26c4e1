// Package status provides the hierarchical diagnostic tree emitted by a
// disposal scan. Each disposal attempted gets its own subtree; a parent's
// effective severity is the worst severity found anywhere beneath it.
package status

import (
	"fmt"
	"io"
	"strings"
)

type Severity int

const (
	OK Severity = iota
	INFO
	WARNING
	ERROR
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

type Status struct {
	Severity Severity
	Message  string
	Children []*Status
}

func New(message string) *Status {
	return &Status{Severity: OK, Message: message}
}

func (s *Status) AddChild(child *Status) *Status {
	s.Children = append(s.Children, child)
	return child
}

func (s *Status) Infof(format string, v ...interface{}) *Status {
	return s.AddChild(&Status{Severity: INFO, Message: fmt.Sprintf(format, v...)})
}

func (s *Status) Warnf(format string, v ...interface{}) *Status {
	return s.AddChild(&Status{Severity: WARNING, Message: fmt.Sprintf(format, v...)})
}

func (s *Status) Errorf(format string, v ...interface{}) *Status {
	return s.AddChild(&Status{Severity: ERROR, Message: fmt.Sprintf(format, v...)})
}

// EffectiveSeverity is the maximum of this node's own severity and that
// of every descendant.
func (s *Status) EffectiveSeverity() Severity {
	max := s.Severity
	for _, c := range s.Children {
		if cs := c.EffectiveSeverity(); cs > max {
			max = cs
		}
	}
	return max
}

func (s *Status) HasErrors() bool {
	return s.EffectiveSeverity() >= ERROR
}

func (s *Status) render(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s[%s] %s\n", indent, s.EffectiveSeverity(), s.Message)
	for _, c := range s.Children {
		c.render(w, depth+1)
	}
}

// Render writes the tree as indented text, one node per line.
func (s *Status) Render(w io.Writer) {
	s.render(w, 0)
}

func (s *Status) String() string {
	var sb strings.Builder
	s.Render(&sb)
	return sb.String()
}
