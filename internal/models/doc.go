// Package models defines the core domain models for the group ledger.
//
// # Models
//
//   - Group: a set of members sharing expenses in one currency
//   - Member: a participant of a group
//   - Expense: an immutable record of who paid and how it was split
//   - Split: one member's share of an expense
//   - Settlement: an advisory payment produced by the settlement engine
//   - SettlementRecord: a persisted payment a member has acted upon
//
// # Design Principles
//
// 1. **Integer money**: all amounts are money.Money in minor units, never floats
// 2. **Derived balances**: balances are recomputed from expenses and settled records, never stored
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
// 4. **Immutable history**: expenses are replaced wholesale, settlement records are never deleted
//
// Timestamps are Unix seconds, matching the storage layer.
package models
