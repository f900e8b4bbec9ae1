// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the ledger or service layer.
//
// Missing records are reported with an error wrapping models.ErrNotFound.
// Stores do not validate domain rules; the ledger does that before writing.
type Store interface {
	// CreateGroup persists a new group with its members.
	// The group.ID and group.CreatedAt fields are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its members in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends members to an existing group.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error

	// CreateExpense persists a new expense with its splits.
	// The expense.ID and expense.CreatedAt fields are populated when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses in insertion order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ReplaceExpense overwrites an existing expense and all of its splits.
	ReplaceExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlementRecord persists a new settlement record.
	// The record.ID and record.CreatedAt fields are populated when empty.
	CreateSettlementRecord(ctx context.Context, record *models.SettlementRecord) error

	// GetSettlementRecord retrieves a settlement record by its ID.
	GetSettlementRecord(ctx context.Context, recordID string) (*models.SettlementRecord, error)

	// ListSettlementRecordsByGroup retrieves a group's records in insertion order.
	ListSettlementRecordsByGroup(ctx context.Context, groupID string) ([]*models.SettlementRecord, error)

	// UpdateSettlementRecord stores the status and SettledAt of an existing record.
	UpdateSettlementRecord(ctx context.Context, record *models.SettlementRecord) error

	// Close releases any resources held by the store.
	Close() error
}
