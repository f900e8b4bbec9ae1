package models

import "github.com/mmynk/splitledger/internal/money"

// Settlement is an advisory payment computed by the settlement engine.
// It is an obligation, not a historical fact.
type Settlement struct {
	// From is the debtor who should pay.
	From string

	// To is the creditor who should receive.
	To string

	// Amount is always positive.
	Amount money.Money
}

// SettlementStatus is the lifecycle state of a SettlementRecord.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementSettled SettlementStatus = "settled"
)

// SettlementRecord is a payment between group members that a user has acted upon.
// Records move from pending to settled exactly once and are never deleted.
type SettlementRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// GroupID is the group this record belongs to.
	GroupID string

	// From is the member who paid (debtor settling up).
	From string

	// To is the member who received payment (creditor being paid).
	To string

	// Amount is the payment amount.
	Amount money.Money

	// Status is pending until confirmed.
	Status SettlementStatus

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64

	// SettledAt is the Unix timestamp of confirmation, zero while pending.
	SettledAt int64
}
