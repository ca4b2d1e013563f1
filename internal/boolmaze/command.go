package boolmaze

import (
	"iter"
	"strings"
)

const HelpMessage = "!{0} press <u/d/l/r/reset/stuck> [Presses the specified button]"

// ParseCommand parses a remote command of the form "press <button>". Both
// words are case-insensitive.
func ParseCommand(command string) (Button, bool) {
	parts := strings.Fields(command)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "press") {
		return 0, false
	}
	b, err := ParseButton(strings.ToLower(parts[1]))
	if err != nil {
		return 0, false
	}
	return b, true
}

// Execute applies one remote command. Commands that do not parse leave the
// maze untouched and return false.
func (m *Maze) Execute(command string) (Result, bool) {
	b, ok := ParseCommand(command)
	if !ok {
		m.log.WithField("command", command).Debug("ignoring command")
		return Result{}, false
	}
	return m.Press(b), true
}

// ExecuteAll applies newline-separated commands in order and stops once the
// maze is solved.
func (m *Maze) ExecuteAll(text string) []Result {
	var results []Result
	for _, line := range byLine(strings.TrimSpace(text)) {
		if m.solved {
			break
		}
		if res, ok := m.Execute(line); ok {
			results = append(results, res)
		}
	}
	return results
}

func byLine(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var line string
		for found {
			line, s, found = strings.Cut(s, "\n")
			if !yield(i, strings.TrimSpace(line)) {
				return
			}
			i += 1
		}
	}
}
