// Package lifecycle implements the membership lifecycle engine: activity
// classification, reconciliation planning, and plan execution.
package lifecycle

import (
	"context"
	"errors"
)

// ErrOTPRequired signals that the package registry refused a mutation
// because a one-time password is missing. The execution engine recovers by
// prompting once and retrying with the code attached.
var ErrOTPRequired = errors.New("one-time password required")

// TeamWriter applies membership mutations to the primary (team graph) store.
type TeamWriter interface {
	AddTeamMember(ctx context.Context, org, teamSlug, login string) error
	RemoveTeamMember(ctx context.Context, org, teamSlug, login string) error
}

// RegistryWriter removes members from the secondary (package registry)
// store. An empty otp is the normal first attempt; implementations return
// ErrOTPRequired when the registry demands a code.
type RegistryWriter interface {
	RemoveTeamMember(ctx context.Context, scope, teamSlug, login, otp string) error
}

// Prompter is the interactive surface injected into the engine and the
// command orchestrators. Both calls block awaiting operator input.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Input(prompt string) (string, error)
}
