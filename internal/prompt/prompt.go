// Package prompt reads answers from an interactive terminal or from any
// line-oriented reader.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Clear is the answer that empties a field instead of keeping its value.
const Clear = "-"

// Prompter asks questions on out and reads answers from in, one line each.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal descriptor behind in, or -1.
	fd int
}

// New returns a prompter over in and out. When in is a terminal, Secret
// answers are read without echo.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Interactive reports whether the prompter reads from a terminal.
func (p *Prompter) Interactive() bool { return p.fd >= 0 }

// Out returns the writer prompts go to.
func (p *Prompter) Out() io.Writer { return p.out }

// Line reads one line without the trailing newline. A final line without a
// newline is returned as-is; io.EOF is returned only when nothing was read.
func (p *Prompter) Line() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints label with the current value and returns the answer. An empty
// answer keeps current; Clear returns "".
func (p *Prompter) Ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	answer, err := p.Line()
	if err != nil {
		return "", err
	}
	return keep(strings.TrimSpace(answer), current), nil
}

// Secret is like Ask but does not echo the answer on a terminal and never
// shows the current value.
func (p *Prompter) Secret(label, current string) (string, error) {
	hint := ""
	if current != "" {
		hint = " [unchanged]"
	}
	fmt.Fprintf(p.out, "%s%s: ", label, hint)

	var answer string
	if p.fd >= 0 {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		answer = string(b)
	} else {
		line, err := p.Line()
		if err != nil {
			return "", err
		}
		answer = line
	}

	return keep(answer, current), nil
}

func keep(answer, current string) string {
	switch answer {
	case "":
		return current
	case Clear:
		return ""
	}
	return answer
}

// Confirm asks a yes/no question. An empty answer picks def.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	choices := "[y/N]"
	if def {
		choices = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s ", question, choices)
		answer, err := p.Line()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}
