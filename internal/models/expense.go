package models

import "github.com/mmynk/splitledger/internal/money"

// SplitType selects how an expense is divided among its participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly, remainder to the earliest participants.
	SplitEqual SplitType = "equal"
	// SplitPercentage divides the amount by percentages summing to 100.
	SplitPercentage SplitType = "percentage"
	// SplitCustom takes literal per-member amounts that must sum to the total.
	SplitCustom SplitType = "custom"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Expense records that one member paid an amount on behalf of the group.
// Expenses are immutable: corrections replace the whole record.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// Description is a free-text label (e.g., "Groceries").
	Description string

	// Amount is the total paid. Always positive.
	Amount money.Money

	// PaidBy is the member ID of the payer.
	PaidBy string

	// Date is the Unix timestamp the expense happened at.
	Date int64

	// SplitType records which policy produced Splits.
	SplitType SplitType

	// Splits are the resolved shares. They sum exactly to Amount and list
	// each member at most once.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was first recorded.
	CreatedAt int64
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string
	Amount   money.Money
}
