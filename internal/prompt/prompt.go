// Package prompt implements the interactive operator surface on a real
// terminal.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/fastify/org-admin/internal/lifecycle"
)

// Terminal prompts on stdin/stdout. Non-interactive runs (piped stdin) fail
// closed rather than hanging on a prompt nobody will answer.
type Terminal struct{}

// New creates a terminal prompter.
func New() *Terminal {
	return &Terminal{}
}

// Confirm asks a yes/no question and blocks for the answer. Declining is
// not an error.
func (t *Terminal) Confirm(question string) (bool, error) {
	if err := requireTerminal(); err != nil {
		return false, err
	}

	p := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return true, nil
}

// Input asks a free-text question and blocks for the answer.
func (t *Terminal) Input(question string) (string, error) {
	if err := requireTerminal(); err != nil {
		return "", err
	}

	p := promptui.Prompt{Label: question}
	answer, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("input prompt: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal; re-run interactively or pass --yes / --dry-run")
	}
	return nil
}

// Ensure Terminal implements the engine's interactive capability.
var _ lifecycle.Prompter = (*Terminal)(nil)
