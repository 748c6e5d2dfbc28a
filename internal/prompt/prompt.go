// Package prompt asks the operator yes/no questions and styles the
// installer's terminal output.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter returns an operator's confirmation. def is the answer assumed when
// the operator just presses enter.
type Prompter interface {
	Confirm(question string, def bool) (bool, error)
}

// Terminal asks questions on an interactive line-oriented terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Terminal reading answers from in and writing questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm writes question with a [Y/n] or [y/N] hint and reads one answer.
// Unrecognised answers re-ask. End of input takes the default.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	question = strings.TrimRight(question, "\n")
	for {
		fmt.Fprintf(t.out, "%s %s ", question, Styles.Hint.Render(hint))

		line, err := t.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("prompt: read answer: %w", err)
		}
		answer, ok := parseAnswer(line, def)
		if ok {
			return answer, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
			return def, nil
		}
		fmt.Fprintln(t.out, "Please answer yes or no.")
	}
}

func parseAnswer(line string, def bool) (answer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// Auto answers every question with a fixed value without reading input.
type Auto struct {
	Answer bool
	out    io.Writer
}

// NewAuto returns a Prompter that always answers answer, echoing each question to out.
func NewAuto(answer bool, out io.Writer) *Auto {
	return &Auto{Answer: answer, out: out}
}

// Confirm records the question and returns the fixed answer.
func (a *Auto) Confirm(question string, _ bool) (bool, error) {
	if a.out != nil {
		reply := "n"
		if a.Answer {
			reply = "y"
		}
		fmt.Fprintf(a.out, "%s %s\n", strings.TrimRight(question, "\n"), Styles.Hint.Render("["+reply+"]"))
	}
	return a.Answer, nil
}
