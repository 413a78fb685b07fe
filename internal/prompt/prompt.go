// Package prompt provides the injected operator-interaction capability so
// plan/apply logic never blocks on ambient stdin and stays testable.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Provider asks the operator questions. Reconcilers receive a Provider
// instead of reading input themselves.
type Provider interface {
	// Confirm asks a yes/no question and returns the answer, falling back
	// to def on empty input.
	Confirm(question string, def bool) bool

	// Input asks for a line of text, falling back to def on empty input.
	Input(question, def string) string
}

// Terminal is a Provider reading from an interactive terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

// NewTerminal returns a Provider on stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

func (t *Terminal) init() {
	t.once.Do(func() {
		if t.In == nil {
			t.In = os.Stdin
		}
		if t.Out == nil {
			t.Out = os.Stdout
		}
		t.reader = bufio.NewReader(t.In)
	})
}

func (t *Terminal) readLine() string {
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func (t *Terminal) Confirm(question string, def bool) bool {
	t.init()
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(t.Out, "%s [%s] ", question, hint)

	switch strings.ToLower(t.readLine()) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func (t *Terminal) Input(question, def string) string {
	t.init()
	if def != "" {
		fmt.Fprintf(t.Out, "%s [%s] ", question, def)
	} else {
		fmt.Fprintf(t.Out, "%s ", question)
	}

	if answer := t.readLine(); answer != "" {
		return answer
	}
	return def
}

// Scripted is a Provider with canned answers, for tests and unattended runs.
type Scripted struct {
	mu sync.Mutex

	// ConfirmAnswers are consumed in order; once exhausted, DefaultConfirm
	// (or the question's own default when DefaultConfirm is nil) is used.
	ConfirmAnswers []bool
	DefaultConfirm *bool

	// InputAnswers are consumed in order; once exhausted, the question's
	// default is used.
	InputAnswers []string

	// Asked records every question for verification.
	Asked []string
}

func (s *Scripted) Confirm(question string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, question)

	if len(s.ConfirmAnswers) > 0 {
		answer := s.ConfirmAnswers[0]
		s.ConfirmAnswers = s.ConfirmAnswers[1:]
		return answer
	}
	if s.DefaultConfirm != nil {
		return *s.DefaultConfirm
	}
	return def
}

func (s *Scripted) Input(question, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, question)

	if len(s.InputAnswers) > 0 {
		answer := s.InputAnswers[0]
		s.InputAnswers = s.InputAnswers[1:]
		return answer
	}
	return def
}
