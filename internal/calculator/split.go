package calculator

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// FullPercent is the sum PercentageSplit weights must reach.
const FullPercent = 100

// SplitPolicy describes how an expense total is divided among participants.
// The set of policies is closed: EqualSplit, PercentageSplit and CustomSplit.
type SplitPolicy interface {
	Type() models.SplitType
	shares(total money.Money, participants []string) ([]money.Money, error)
}

// EqualSplit divides the total evenly. Remainder units go to the earliest participants.
type EqualSplit struct{}

// PercentageSplit divides the total by whole Percents, aligned index by index
// with the participant list and summing to 100. Rounding remainders go to the
// earliest participants.
type PercentageSplit struct {
	Percents []int64
}

// CustomSplit assigns literal amounts, aligned index by index with the
// participant list. The amounts must sum to the total exactly; they are never
// adjusted.
type CustomSplit struct {
	Amounts []money.Money
}

func (EqualSplit) Type() models.SplitType      { return models.SplitEqual }
func (PercentageSplit) Type() models.SplitType { return models.SplitPercentage }
func (CustomSplit) Type() models.SplitType     { return models.SplitCustom }

func (EqualSplit) shares(total money.Money, participants []string) ([]money.Money, error) {
	weights := make([]int64, len(participants))
	for i := range weights {
		weights[i] = 1
	}
	return money.Distribute(total, weights)
}

func (p PercentageSplit) shares(total money.Money, participants []string) ([]money.Money, error) {
	if len(p.Percents) != len(participants) {
		return nil, fmt.Errorf("%w: %d percentages for %d participants",
			models.ErrInvalidSplitWeights, len(p.Percents), len(participants))
	}
	var sum int64
	for i, pct := range p.Percents {
		if pct < 0 || pct > FullPercent {
			return nil, fmt.Errorf("%w: percentage %d out of range for %s",
				models.ErrInvalidSplitWeights, pct, participants[i])
		}
		sum += pct
	}
	if sum != FullPercent {
		return nil, fmt.Errorf("%w: percentages sum to %d, want %d",
			models.ErrInvalidSplitWeights, sum, FullPercent)
	}
	return money.Distribute(total, p.Percents)
}

func (c CustomSplit) shares(total money.Money, participants []string) ([]money.Money, error) {
	if len(c.Amounts) != len(participants) {
		return nil, fmt.Errorf("%w: %d amounts for %d participants",
			models.ErrSplitMismatch, len(c.Amounts), len(participants))
	}
	sum := money.Zero(total.Currency)
	for i, a := range c.Amounts {
		if a.IsNegative() {
			return nil, fmt.Errorf("%w: negative share for %s", models.ErrInvalidAmount, participants[i])
		}
		var err error
		if sum, err = sum.Add(a); err != nil {
			return nil, err
		}
	}
	if sum != total {
		return nil, fmt.Errorf("%w: shares sum to %s, total is %s", models.ErrSplitMismatch, sum, total)
	}
	out := make([]money.Money, len(c.Amounts))
	copy(out, c.Amounts)
	return out, nil
}

// ComputeSplits resolves policy into one Split per participant, in participant
// order. The returned splits always sum to total.
func ComputeSplits(total money.Money, participants []string, policy SplitPolicy) ([]models.Split, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive, got %s", models.ErrInvalidAmount, total)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: no split policy", models.ErrInvalidSplitWeights)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return nil, fmt.Errorf("%w: empty member id", models.ErrUnknownMember)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateMember, p)
		}
		seen[p] = true
	}

	shares, err := policy.shares(total, participants)
	if err != nil {
		return nil, err
	}

	splits := make([]models.Split, len(participants))
	for i, p := range participants {
		splits[i] = models.Split{MemberID: p, Amount: shares[i]}
	}
	return splits, nil
}
