// Package registry drives npm team membership through the npm CLI.
package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fastify/org-admin/internal/lifecycle"
	"github.com/fastify/org-admin/internal/log"
)

// Runner executes an external command and returns its combined output.
// It exists so tests can stand in for the npm binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w\nSTDOUT: %s\nSTDERR: %s",
			name, strings.Join(args, " "), err, stdout.String(), stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// NPM removes members from npm organization teams. Authentication comes
// from the npm CLI's own credential store; a missing second factor surfaces
// as lifecycle.ErrOTPRequired so the caller can retry with a code.
type NPM struct {
	runner Runner
}

// NewNPM creates a client backed by the real npm binary.
func NewNPM() *NPM {
	return &NPM{runner: execRunner{}}
}

// RemoveTeamMember removes login from the scoped team, attaching the
// one-time password when one is supplied.
func (n *NPM) RemoveTeamMember(ctx context.Context, scope, teamSlug, login, otp string) error {
	target := fmt.Sprintf("@%s:%s", scope, teamSlug)
	args := []string{"team", "rm", target, login}
	if otp != "" {
		args = append(args, "--otp", otp)
	}

	log.Debug("npm team rm", "team", target, "login", login, "otp", otp != "")
	if _, err := n.runner.Run(ctx, "npm", args...); err != nil {
		if isOTPError(err) {
			return fmt.Errorf("npm team rm %s %s: %w", target, login, lifecycle.ErrOTPRequired)
		}
		return err
	}

	log.Info("user removed from npm team", "team", target, "login", login)
	return nil
}

// isOTPError recognizes the npm CLI's missing-second-factor failure.
func isOTPError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "npm ERR! code EOTP") || strings.Contains(msg, "one-time password")
}

// Ensure NPM implements the engine's registry capability.
var _ lifecycle.RegistryWriter = (*NPM)(nil)
