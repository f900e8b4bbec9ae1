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

// NewSettlement is the input to RecordSettlement.
type NewSettlement struct {
	GroupID string
	From    string
	To      string
	Amount  money.Money
	Note    string
}

// SettlementTracker owns the pending -> settled lifecycle of settlement
// records and folds settled ones into the group's outstanding balances.
type SettlementTracker struct {
	store     storage.Store
	locks     *Locks
	publisher events.Publisher
	now       func() time.Time
}

// NewSettlementTracker creates a SettlementTracker. A nil publisher discards events.
func NewSettlementTracker(store storage.Store, locks *Locks, publisher events.Publisher) *SettlementTracker {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &SettlementTracker{store: store, locks: locks, publisher: publisher, now: time.Now}
}

// RecordSettlement stores a pending payment from in.From to in.To.
func (t *SettlementTracker) RecordSettlement(ctx context.Context, in NewSettlement) (*models.SettlementRecord, error) {
	record, err := t.recordSettlement(ctx, in)
	if err != nil {
		return nil, err
	}
	publish(ctx, t.publisher, events.New(events.SettlementRecorded, record.GroupID, record.ID))
	return record, nil
}

func (t *SettlementTracker) recordSettlement(ctx context.Context, in NewSettlement) (*models.SettlementRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive, got %s", models.ErrInvalidAmount, in.Amount)
	}
	if in.From == in.To {
		return nil, fmt.Errorf("%w: %q", models.ErrSelfSettlement, in.From)
	}

	unlock := t.locks.Lock(in.GroupID)
	defer unlock()

	group, err := t.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if in.Amount.Currency != group.Currency {
		return nil, fmt.Errorf("%w: settlement in %q, group %s uses %q",
			models.ErrCurrencyMismatch, in.Amount.Currency, group.ID, group.Currency)
	}
	for _, id := range []string{in.From, in.To} {
		if !group.HasMember(id) {
			return nil, fmt.Errorf("%w: %q is not in group %s", models.ErrUnknownMember, id, group.ID)
		}
	}

	record := &models.SettlementRecord{
		GroupID:   group.ID,
		From:      in.From,
		To:        in.To,
		Amount:    in.Amount,
		Status:    models.SettlementPending,
		Note:      in.Note,
		CreatedAt: t.now().Unix(),
	}
	if err := t.store.CreateSettlementRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ConfirmSettlement moves record id from pending to settled and stamps
// SettledAt. Confirming twice fails with models.ErrAlreadySettled.
func (t *SettlementTracker) ConfirmSettlement(ctx context.Context, id string) (*models.SettlementRecord, error) {
	record, err := t.confirmSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, t.publisher, events.New(events.SettlementConfirmed, record.GroupID, record.ID))
	return record, nil
}

func (t *SettlementTracker) confirmSettlement(ctx context.Context, id string) (*models.SettlementRecord, error) {
	record, err := t.store.GetSettlementRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := t.locks.Lock(record.GroupID)
	defer unlock()

	// The status may have changed while waiting for the lock.
	record, err = t.store.GetSettlementRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == models.SettlementSettled {
		return nil, fmt.Errorf("%w: %s", models.ErrAlreadySettled, id)
	}

	record.Status = models.SettlementSettled
	record.SettledAt = t.now().Unix()
	if err := t.store.UpdateSettlementRecord(ctx, record); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Settlement confirmed",
		"group_id", record.GroupID,
		"settlement_id", record.ID,
		"from", record.From,
		"to", record.To,
		"amount", record.Amount.String(),
	)
	return record, nil
}

// ListSettlements returns every record of the group in creation order.
func (t *SettlementTracker) ListSettlements(ctx context.Context, groupID string) ([]*models.SettlementRecord, error) {
	unlock := t.locks.RLock(groupID)
	defer unlock()

	if _, err := t.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return t.store.ListSettlementRecordsByGroup(ctx, groupID)
}

// NetOutstanding returns the group's balances from its expenses, with every
// settled record applied as a transfer. Pending records are ignored.
func (t *SettlementTracker) NetOutstanding(ctx context.Context, groupID string) (calculator.Balances, error) {
	snap, err := t.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return snap.outstanding()
}

// Summary returns paid, owed and net totals per member, with settled records applied.
func (t *SettlementTracker) Summary(ctx context.Context, groupID string) ([]calculator.MemberBalance, error) {
	snap, err := t.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.Summarize(snap.group.Currency, snap.group.MemberIDs(), snap.expenses, snap.transfers)
}

// Plan returns the payments that would settle the group's outstanding balances.
func (t *SettlementTracker) Plan(ctx context.Context, groupID string) ([]models.Settlement, error) {
	snap, err := t.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	balances, err := snap.outstanding()
	if err != nil {
		return nil, err
	}
	return calculator.Settle(balances)
}

// groupSnapshot is a consistent read of one group's history.
type groupSnapshot struct {
	group     *models.Group
	expenses  []*models.Expense
	transfers []calculator.Transfer
}

func (t *SettlementTracker) snapshot(ctx context.Context, groupID string) (*groupSnapshot, error) {
	unlock := t.locks.RLock(groupID)
	defer unlock()

	group, err := t.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := t.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	records, err := t.store.ListSettlementRecordsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var transfers []calculator.Transfer
	for _, r := range records {
		if r.Status != models.SettlementSettled {
			continue
		}
		transfers = append(transfers, calculator.Transfer{From: r.From, To: r.To, Amount: r.Amount})
	}
	return &groupSnapshot{group: group, expenses: expenses, transfers: transfers}, nil
}

func (s *groupSnapshot) outstanding() (calculator.Balances, error) {
	currency := s.group.Currency
	balances, err := calculator.ComputeBalances(currency, s.group.MemberIDs(), s.expenses)
	if err != nil {
		return nil, err
	}
	return calculator.ApplyTransfers(currency, balances, s.transfers)
}
