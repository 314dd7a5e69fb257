package main

import (
	"fmt"
	"strings"
)

// statusLine collects the parts of the window title shown each second.
type statusLine struct {
	parts []string
}

func (s *statusLine) Add(format string, args ...any) {
	s.parts = append(s.parts, fmt.Sprintf(format, args...))
}

func (s *statusLine) Clear() {
	s.parts = s.parts[:0]
}

func (s *statusLine) String() string {
	return strings.Join(s.parts, " | ")
}
