package renderer

import (
	"github.com/dshills/keypad/internal/bridge"
)

// statusLine is the transient message shown above the status bar.
type statusLine struct {
	text  string
	level string
}

func (s *statusLine) set(text, level string) {
	if level == "" {
		level = bridge.StatusInfo
	}
	s.text, s.level = text, level
}

func (s *statusLine) clear() {
	s.text, s.level = "", ""
}

func (s *statusLine) isError() bool {
	return s.level == bridge.StatusError
}
