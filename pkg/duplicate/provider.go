package duplicate

import (
	"context"
	"fmt"

	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/storage"
)

// Collision describes a candidate whose destination already exists
type Collision struct {
	Candidate *models.FileCandidate

	// Destination is the colliding path relative to the root
	Destination string

	// Existing describes the file already at Destination
	Existing *storage.FileInfo

	// Compared is true when contents were compared; Identical is only
	// meaningful in that case
	Compared  bool
	Identical bool
}

// DecisionProvider decides what happens to a colliding file. The
// organizer calls it synchronously; implementations may block on
// operator input.
type DecisionProvider interface {
	// Decide picks rename, overwrite or skip for a collision
	Decide(ctx context.Context, c *Collision) (models.Decision, error)

	// ConfirmOverwrite asks for explicit confirmation before an overwrite
	ConfirmOverwrite(ctx context.Context, c *Collision) (bool, error)
}

// PolicyProvider answers every collision with a fixed policy. Overwrites
// are confirmed implicitly.
type PolicyProvider struct {
	Policy models.DuplicatePolicy
}

// NewPolicyProvider creates a headless provider for a non-interactive policy
func NewPolicyProvider(policy models.DuplicatePolicy) (*PolicyProvider, error) {
	switch policy {
	case models.PolicyRename, models.PolicyOverwrite, models.PolicySkip:
		return &PolicyProvider{Policy: policy}, nil
	default:
		return nil, fmt.Errorf("policy %q needs an interactive provider", policy)
	}
}

// Decide returns the decision matching the policy
func (p *PolicyProvider) Decide(ctx context.Context, c *Collision) (models.Decision, error) {
	switch p.Policy {
	case models.PolicyRename:
		return models.DecisionRename, nil
	case models.PolicyOverwrite:
		return models.DecisionOverwrite, nil
	case models.PolicySkip:
		return models.DecisionSkip, nil
	default:
		return "", fmt.Errorf("unsupported duplicate policy: %s", p.Policy)
	}
}

// ConfirmOverwrite always confirms
func (p *PolicyProvider) ConfirmOverwrite(ctx context.Context, c *Collision) (bool, error) {
	return true, nil
}

// ScriptedProvider replays a fixed sequence of decisions and
// confirmations. Once a script runs out, it skips and declines.
type ScriptedProvider struct {
	Decisions     []models.Decision
	Confirmations []bool

	// Seen records every collision presented, in order
	Seen []*Collision
}

// Decide returns the next scripted decision
func (p *ScriptedProvider) Decide(ctx context.Context, c *Collision) (models.Decision, error) {
	p.Seen = append(p.Seen, c)
	if len(p.Decisions) == 0 {
		return models.DecisionSkip, nil
	}
	d := p.Decisions[0]
	p.Decisions = p.Decisions[1:]
	return d, nil
}

// ConfirmOverwrite returns the next scripted confirmation
func (p *ScriptedProvider) ConfirmOverwrite(ctx context.Context, c *Collision) (bool, error) {
	if len(p.Confirmations) == 0 {
		return false, nil
	}
	ok := p.Confirmations[0]
	p.Confirmations = p.Confirmations[1:]
	return ok, nil
}
