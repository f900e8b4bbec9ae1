package calculator

import (
	"container/heap"
	"errors"
	"fmt"
	"math/big"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// ErrUnbalanced is returned by Settle when credits and debits differ.
var ErrUnbalanced = errors.New("balances do not sum to zero")

// party is a creditor or debtor with the magnitude still to settle. The
// magnitude is unsigned so the most negative int64 balance still fits.
type party struct {
	id        string
	remaining uint64
}

// partyQueue is a max-heap by remaining amount, ties broken by ascending ID.
type partyQueue []party

func (q partyQueue) Len() int { return len(q) }
func (q partyQueue) Less(i, j int) bool {
	if q[i].remaining != q[j].remaining {
		return q[i].remaining > q[j].remaining
	}
	return q[i].id < q[j].id
}
func (q partyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *partyQueue) Push(x any)   { *q = append(*q, x.(party)) }
func (q *partyQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}

// Settle produces the payments (debtor -> creditor) that zero every balance.
//
// Greedy matching: repeatedly take the largest creditor and the largest debtor
// and settle the smaller of the two magnitudes. Ties on magnitude are broken by
// member ID so the output is reproducible. Each step zeroes at least one
// party, so n non-zero members produce at most n-1 payments. Natural
// pairings (who actually paid for whom) are not preserved.
func Settle(b Balances) ([]models.Settlement, error) {
	var (
		creditors, debtors partyQueue
		currency           string
	)
	credit, debit := new(big.Int), new(big.Int)
	for _, id := range b.MemberIDs() {
		amt := b[id]
		if currency == "" {
			currency = amt.Currency
		} else if amt.Currency != currency && !amt.IsZero() {
			return nil, fmt.Errorf("%w: member %s in %s, expected %s",
				money.ErrCurrencyMismatch, id, amt.Currency, currency)
		}
		switch {
		case amt.IsPositive():
			creditors = append(creditors, party{id: id, remaining: uint64(amt.Amount)})
			credit.Add(credit, big.NewInt(amt.Amount))
		case amt.IsNegative():
			debtors = append(debtors, party{id: id, remaining: magnitude(amt.Amount)})
			debit.Sub(debit, big.NewInt(amt.Amount))
		}
	}
	if credit.Cmp(debit) != 0 {
		return nil, fmt.Errorf("%w: credits %d, debits %d", ErrUnbalanced, credit, debit)
	}
	if len(creditors) == 0 {
		return []models.Settlement{}, nil
	}

	heap.Init(&creditors)
	heap.Init(&debtors)

	settlements := make([]models.Settlement, 0, len(creditors)+len(debtors)-1)
	for creditors.Len() > 0 && debtors.Len() > 0 {
		c := heap.Pop(&creditors).(party)
		d := heap.Pop(&debtors).(party)

		// Bounded by the creditor's balance, so it fits in int64.
		amount := min(c.remaining, d.remaining)
		settlements = append(settlements, models.Settlement{
			From:   d.id,
			To:     c.id,
			Amount: money.New(int64(amount), currency),
		})

		c.remaining -= amount
		d.remaining -= amount
		if c.remaining > 0 {
			heap.Push(&creditors, c)
		}
		if d.remaining > 0 {
			heap.Push(&debtors, d)
		}
	}
	return settlements, nil
}

// magnitude returns |v| for negative v, including math.MinInt64.
func magnitude(v int64) uint64 {
	return uint64(-(v + 1)) + 1
}
