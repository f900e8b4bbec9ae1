package models

import (
	"errors"

	"github.com/mmynk/splitledger/internal/money"
)

// Validation and lifecycle errors returned by the ledger. All of them are
// deterministic input errors and are never retried.
var (
	ErrUnknownMember       = errors.New("unknown member")
	ErrInvalidSplitWeights = money.ErrInvalidWeights
	ErrSplitMismatch       = errors.New("split amounts do not sum to expense total")
	ErrNotFound            = errors.New("not found")
	ErrAlreadySettled      = errors.New("settlement already settled")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCurrencyMismatch    = money.ErrCurrencyMismatch
	ErrDuplicateMember     = errors.New("duplicate member")
	ErrSelfSettlement      = errors.New("settlement payer and payee are the same member")
	ErrGroupMismatch       = errors.New("record belongs to another group")
)
