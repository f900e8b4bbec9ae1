// Package ledger owns the lifecycle of expenses and settlement records.
//
// ExpenseLedger validates expenses against their group and stores them with
// resolved splits. SettlementTracker records payments members have made and
// nets confirmed ones against recomputed balances. Balances are never stored:
// every read recomputes them from the group's full history.
//
// Writes to one group are serialised through a shared Locks table. Events are
// published after a write is committed and released; a failed publish is
// logged and never fails the write.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// NewExpense is the input to AddExpense and UpdateExpense.
type NewExpense struct {
	GroupID     string
	Description string
	Amount      money.Money
	PaidBy      string
	// Date is a Unix timestamp. Zero means now.
	Date int64
	// Participants are the members sharing the expense, in split order.
	Participants []string
	Policy       calculator.SplitPolicy
}

// ExpenseLedger stores expenses per group.
type ExpenseLedger struct {
	store     storage.Store
	locks     *Locks
	publisher events.Publisher
	now       func() time.Time
}

// NewExpenseLedger creates an ExpenseLedger. A nil publisher discards events.
func NewExpenseLedger(store storage.Store, locks *Locks, publisher events.Publisher) *ExpenseLedger {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ExpenseLedger{store: store, locks: locks, publisher: publisher, now: time.Now}
}

// AddExpense validates in, resolves its splits and appends it to the group.
func (l *ExpenseLedger) AddExpense(ctx context.Context, in NewExpense) (*models.Expense, error) {
	expense, err := l.addExpense(ctx, in)
	if err != nil {
		return nil, err
	}
	publish(ctx, l.publisher, events.New(events.ExpenseAdded, expense.GroupID, expense.ID))
	return expense, nil
}

func (l *ExpenseLedger) addExpense(ctx context.Context, in NewExpense) (*models.Expense, error) {
	unlock := l.locks.Lock(in.GroupID)
	defer unlock()

	group, err := l.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	expense, err := l.build(group, in)
	if err != nil {
		return nil, err
	}
	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Expense added",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"paid_by", expense.PaidBy,
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// UpdateExpense replaces expense id wholesale with in. The ID, group and
// creation time are kept; splits are recomputed.
func (l *ExpenseLedger) UpdateExpense(ctx context.Context, id string, in NewExpense) (*models.Expense, error) {
	expense, err := l.updateExpense(ctx, id, in)
	if err != nil {
		return nil, err
	}
	publish(ctx, l.publisher, events.New(events.ExpenseUpdated, expense.GroupID, expense.ID))
	return expense, nil
}

func (l *ExpenseLedger) updateExpense(ctx context.Context, id string, in NewExpense) (*models.Expense, error) {
	existing, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.GroupID == "" {
		in.GroupID = existing.GroupID
	}
	if in.GroupID != existing.GroupID {
		return nil, fmt.Errorf("%w: expense %s is in group %s", models.ErrGroupMismatch, id, existing.GroupID)
	}

	unlock := l.locks.Lock(existing.GroupID)
	defer unlock()

	// Re-read under the lock in case the expense was removed meanwhile.
	existing, err = l.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	group, err := l.store.GetGroup(ctx, existing.GroupID)
	if err != nil {
		return nil, err
	}
	expense, err := l.build(group, in)
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt
	if err := l.store.ReplaceExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// RemoveExpense hard-deletes one expense. Other expenses are untouched.
func (l *ExpenseLedger) RemoveExpense(ctx context.Context, id string) error {
	existing, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}

	unlock := l.locks.Lock(existing.GroupID)
	err = l.store.DeleteExpense(ctx, id)
	unlock()
	if err != nil {
		return err
	}

	publish(ctx, l.publisher, events.New(events.ExpenseRemoved, existing.GroupID, id))
	return nil
}

// ListExpenses returns the group's expenses in insertion order.
func (l *ExpenseLedger) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	unlock := l.locks.RLock(groupID)
	defer unlock()

	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByGroup(ctx, groupID)
}

// build validates in against group and resolves its splits.
func (l *ExpenseLedger) build(group *models.Group, in NewExpense) (*models.Expense, error) {
	if in.Amount.Currency != group.Currency {
		return nil, fmt.Errorf("%w: expense in %q, group %s uses %q",
			models.ErrCurrencyMismatch, in.Amount.Currency, group.ID, group.Currency)
	}
	if !group.HasMember(in.PaidBy) {
		return nil, fmt.Errorf("%w: payer %q is not in group %s", models.ErrUnknownMember, in.PaidBy, group.ID)
	}
	for _, p := range in.Participants {
		if !group.HasMember(p) {
			return nil, fmt.Errorf("%w: participant %q is not in group %s", models.ErrUnknownMember, p, group.ID)
		}
	}

	splits, err := calculator.ComputeSplits(in.Amount, in.Participants, in.Policy)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date == 0 {
		date = l.now().Unix()
	}
	return &models.Expense{
		GroupID:     group.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PaidBy:      in.PaidBy,
		Date:        date,
		SplitType:   in.Policy.Type(),
		Splits:      splits,
	}, nil
}

func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", e.Type,
			"group_id", e.GroupID,
			"entity_id", e.EntityID,
			"error", err,
		)
	}
}
