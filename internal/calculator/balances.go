package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Balances maps member ID to net amount.
// Positive = is owed money, negative = owes money.
type Balances map[string]money.Money

// Transfer is a payment that already happened between two members.
type Transfer struct {
	From   string // Who paid (debtor settling up)
	To     string // Who received (creditor being paid)
	Amount money.Money
}

// MemberBalance is the balance information for one group member.
type MemberBalance struct {
	MemberID string
	Paid     money.Money // Expenses paid plus settlements sent
	Owed     money.Money // Expense shares plus settlements received
	Net      money.Money // Paid - Owed
}

// ComputeBalances reduces an expense history into one net balance per member.
//
// Every member in members starts at zero and is kept even when its balance
// stays zero. For each expense the payer is credited with the amount and each
// split member is debited with its share. The result always sums to zero.
func ComputeBalances(currency string, members []string, expenses []*models.Expense) (Balances, error) {
	balances := make(Balances, len(members))
	for _, m := range members {
		balances[m] = money.Zero(currency)
	}
	for _, e := range expenses {
		if err := balances.credit(currency, e.PaidBy, e.Amount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		for _, s := range e.Splits {
			if err := balances.debit(currency, s.MemberID, s.Amount); err != nil {
				return nil, fmt.Errorf("expense %s: %w", e.ID, err)
			}
		}
	}
	return balances, nil
}

// ApplyTransfers returns a copy of b with each transfer folded in: the payer
// is credited and the receiver debited by the transfer amount.
func ApplyTransfers(currency string, b Balances, transfers []Transfer) (Balances, error) {
	out := make(Balances, len(b))
	for id, amt := range b {
		out[id] = amt
	}
	for _, t := range transfers {
		if err := out.credit(currency, t.From, t.Amount); err != nil {
			return nil, err
		}
		if err := out.debit(currency, t.To, t.Amount); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Sum returns the total of all balances. It is zero for any consistent ledger.
func (b Balances) Sum(currency string) (money.Money, error) {
	total := money.Zero(currency)
	for _, id := range b.MemberIDs() {
		var err error
		if total, err = total.Add(b[id]); err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

// MemberIDs returns the member IDs in ascending order.
func (b Balances) MemberIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b Balances) credit(currency, member string, amount money.Money) error {
	cur, ok := b[member]
	if !ok {
		cur = money.Zero(currency)
	}
	next, err := cur.Add(amount)
	if err != nil {
		return fmt.Errorf("member %s: %w", member, err)
	}
	b[member] = next
	return nil
}

func (b Balances) debit(currency, member string, amount money.Money) error {
	cur, ok := b[member]
	if !ok {
		cur = money.Zero(currency)
	}
	next, err := cur.Sub(amount)
	if err != nil {
		return fmt.Errorf("member %s: %w", member, err)
	}
	b[member] = next
	return nil
}

// Summarize computes paid, owed and net totals per member across expenses and
// already-settled transfers, sorted by member ID.
//
// Algorithm:
//   - For each expense: payer paid +amount, each split member owes its share
//   - For each transfer: payer's paid total grows, receiver's owed total grows
//   - Net = Paid - Owed
func Summarize(currency string, members []string, expenses []*models.Expense, transfers []Transfer) ([]MemberBalance, error) {
	paid := make(Balances, len(members))
	owed := make(Balances, len(members))
	for _, m := range members {
		paid[m] = money.Zero(currency)
		owed[m] = money.Zero(currency)
	}
	add := func(b Balances, member string, amount money.Money) error {
		if err := b.credit(currency, member, amount); err != nil {
			return err
		}
		// Keep both maps keyed by the same member set.
		if _, ok := paid[member]; !ok {
			paid[member] = money.Zero(currency)
		}
		if _, ok := owed[member]; !ok {
			owed[member] = money.Zero(currency)
		}
		return nil
	}

	for _, e := range expenses {
		if err := add(paid, e.PaidBy, e.Amount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		for _, s := range e.Splits {
			if err := add(owed, s.MemberID, s.Amount); err != nil {
				return nil, fmt.Errorf("expense %s: %w", e.ID, err)
			}
		}
	}
	for _, t := range transfers {
		if err := add(paid, t.From, t.Amount); err != nil {
			return nil, err
		}
		if err := add(owed, t.To, t.Amount); err != nil {
			return nil, err
		}
	}

	ids := paid.MemberIDs()
	out := make([]MemberBalance, len(ids))
	for i, id := range ids {
		net, err := paid[id].Sub(owed[id])
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", id, err)
		}
		out[i] = MemberBalance{MemberID: id, Paid: paid[id], Owed: owed[id], Net: net}
	}
	return out, nil
}
