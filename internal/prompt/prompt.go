// Package prompt implements the interactive questions of the CLI on top of
// promptui.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// Terminal asks questions on the controlling terminal.
type Terminal struct{}

// Confirm asks a yes/no question. Answering no is not an error.
func (Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Select returns the index of the chosen item.
func (Terminal) Select(label string, items []string) (int, error) {
	s := promptui.Select{Label: label, Items: items, Size: min(len(items), 10)}
	idx, _, err := s.Run()
	return idx, err
}

// Input asks for free text, offering def as the default answer.
func (Terminal) Input(label, def string, validate func(string) error) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Validate: validate}
	v, err := p.Run()
	return strings.TrimSpace(v), err
}

// ValidateDir accepts paths of existing directories.
func ValidateDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path is required")
	}
	fi, err := os.Stat(s)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}
