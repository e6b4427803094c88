package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// Prompter reads answers line by line and writes prompts and alerts.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a Prompter over r and w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(r), out: w}
}

// Ask prints label and returns the trimmed answer. It returns io.EOF once the
// input is exhausted.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// AskDefault is Ask with the current value shown; an empty answer keeps it.
func (p *Prompter) AskDefault(label, current string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]", label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// Choose prints a numbered menu and returns the index of the picked option.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	for {
		fmt.Fprintf(p.out, "\n%s\n", title)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
		answer, err := p.Ask("Choose")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, "Unknown option.")
	}
}

// Println writes a line.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text.
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Alert shows a titled message.
func (p *Prompter) Alert(title, message string) {
	if title == "" && message == "" {
		return
	}
	fmt.Fprintf(p.out, "\n[%s] %s\n", title, message)
}

// FieldErrors lists the errors of the given fields in order.
func (p *Prompter) FieldErrors(errs validation.Errors, fields ...string) {
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(p.out, "  %s: %s\n", f, msg)
		}
	}
}
