package loyalty

import (
	"errors"
	"fmt"

	"cafeledger/domain/shared"
)

// Sentinel errors of the loyalty subdomain, for errors.Is checks.
var (
	// ErrAccountNotFound no loyalty account exists for the customer yet.
	// The application layer creates accounts lazily, so callers outside
	// the repositories rarely see this.
	ErrAccountNotFound = errors.New("loyalty account not found")

	// ErrInsufficientPoints the balance does not cover the requested spend.
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	// ErrTierRequirementNotMet the account tier is below a reward's
	// required tier.
	ErrTierRequirementNotMet = errors.New("loyalty tier requirement not met")

	// ErrRewardNotFound the reward id does not resolve.
	ErrRewardNotFound = errors.New("reward not found")

	// ErrRewardNotAvailable the reward is inactive or out of stock.
	ErrRewardNotAvailable = errors.New("reward is not available")

	// ErrMaxTierReached there is no tier above the current one.
	ErrMaxTierReached = errors.New("already at the highest tier")
)

// InsufficientPointsError carries the figures of a rejected spend.
type InsufficientPointsError struct {
	Required  int
	Available int
	stack     []uintptr
}

// NewInsufficientPointsError creates the rejection with both figures.
func NewInsufficientPointsError(required, available int) error {
	return &InsufficientPointsError{
		Required:  required,
		Available: available,
		stack:     shared.CaptureStack(3),
	}
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientPointsError) Unwrap() error { return ErrInsufficientPoints }

// Stack implements shared.Stacker.
func (e *InsufficientPointsError) Stack() []string { return shared.FormatStack(e.stack) }

// TierRequirementNotMetError reports a reward gated above the account tier.
type TierRequirementNotMetError struct {
	Required Tier
	Current  Tier
	stack    []uintptr
}

// NewTierRequirementNotMetError creates the rejection for a tier-gated reward.
func NewTierRequirementNotMetError(required, current Tier) error {
	return &TierRequirementNotMetError{
		Required: required,
		Current:  current,
		stack:    shared.CaptureStack(3),
	}
}

func (e *TierRequirementNotMetError) Error() string {
	return fmt.Sprintf("reward requires %s tier, account is %s", e.Required, e.Current)
}

func (e *TierRequirementNotMetError) Unwrap() error { return ErrTierRequirementNotMet }

// Stack implements shared.Stacker.
func (e *TierRequirementNotMetError) Stack() []string { return shared.FormatStack(e.stack) }
