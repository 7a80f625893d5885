// Package prompt asks the user for the values a command was not given on the
// command line.
package prompt

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("prompt: cancelled")

// Collector gathers input from the user.
type Collector interface {
	// Text asks for a line of input. validate may be nil.
	Text(label string, validate func(string) error) (string, error)
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
	// Select asks the user to pick one of items and returns its index.
	Select(label string, items []string) (int, error)
}

// Terminal is a Collector backed by promptui.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

func (t Terminal) Text(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Stdin:     t.stdin(),
		Stdout:    t.stdout(),
	}
	if validate != nil {
		p.Validate = validate
	}
	result, err := p.Run()
	if err != nil {
		return "", mapErr(err)
	}
	return result, nil
}

func (t Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.stdin(),
		Stdout:    t.stdout(),
	}
	result, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, mapErr(err)
	}
	if result == "" {
		return false, nil
	}
	return ParseBool(result)
}

func (t Terminal) Select(label string, items []string) (int, error) {
	s := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     10,
		HideHelp: true,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ . | bold }}",
			Inactive: "   {{ . }}",
			Selected: "{{ . | bold }}",
		},
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(strings.TrimSpace(input)))
		},
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	i, _, err := s.Run()
	if err != nil {
		return -1, mapErr(err)
	}
	return i, nil
}

func (t Terminal) stdin() io.ReadCloser {
	if t.In == nil {
		return nil
	}
	return io.NopCloser(t.In)
}

func (t Terminal) stdout() io.WriteCloser {
	if t.Out == nil {
		return nil
	}
	return nopCloser{t.Out}
}

func mapErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch strings.TrimSpace(str) {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
