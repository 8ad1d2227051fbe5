package cli

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input.  The terminal implementation uses
// promptui; tests script the answers.
type Prompter interface {
	Input(label, def string, mask rune, validate func(string) error) (string, error)
	Select(label string, items []string) (int, error)
	Confirm(label string) (bool, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Input(label, def string, mask rune, validate func(string) error) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Mask: mask, Validate: validate}
	v, err := p.Run()
	return v, promptErr(err)
}

func (terminalPrompter) Select(label string, items []string) (int, error) {
	s := promptui.Select{Label: label, Items: items, Size: 10}
	i, _, err := s.Run()
	return i, promptErr(err)
}

func (terminalPrompter) Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	v, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, promptErr(err)
	}
	return strings.EqualFold(v, "y"), nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return err
}
