package calculator

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// newExpense builds an expense with an equal split for tests.
func newExpense(t *testing.T, id, payer string, amount int64, participants ...string) *models.Expense {
	t.Helper()
	splits, err := ComputeSplits(eur(amount), participants, EqualSplit{})
	if err != nil {
		t.Fatalf("ComputeSplits: %v", err)
	}
	return &models.Expense{
		ID:        id,
		GroupID:   "g1",
		Amount:    eur(amount),
		PaidBy:    payer,
		SplitType: models.SplitEqual,
		Splits:    splits,
	}
}

func TestComputeBalances(t *testing.T) {
	t.Run("three members two expenses", func(t *testing.T) {
		// A pays 90 split A/B/C, B pays 30 split B/C.
		// A: +90 -30 = +60
		// B: -30 +30 -15 = -15
		// C: -30 -15 = -45
		expenses := []*models.Expense{
			newExpense(t, "e1", "A", 9000, "A", "B", "C"),
			newExpense(t, "e2", "B", 3000, "B", "C"),
		}
		got, err := ComputeBalances("EUR", []string{"A", "B", "C"}, expenses)
		if err != nil {
			t.Fatalf("ComputeBalances: %v", err)
		}
		want := Balances{"A": eur(6000), "B": eur(-1500), "C": eur(-4500)}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("balances = %v, want %v", got, want)
		}
	})

	t.Run("members without expenses are kept at zero", func(t *testing.T) {
		got, err := ComputeBalances("EUR", []string{"A", "B", "Z"}, []*models.Expense{
			newExpense(t, "e1", "A", 1000, "A", "B"),
		})
		if err != nil {
			t.Fatalf("ComputeBalances: %v", err)
		}
		z, ok := got["Z"]
		if !ok {
			t.Fatal("expected member Z to be present")
		}
		if !z.IsZero() {
			t.Errorf("Z balance = %v, want 0", z)
		}
	})

	t.Run("no expenses", func(t *testing.T) {
		got, err := ComputeBalances("EUR", []string{"A"}, nil)
		if err != nil {
			t.Fatalf("ComputeBalances: %v", err)
		}
		if len(got) != 1 || !got["A"].IsZero() {
			t.Errorf("balances = %v, want A=0", got)
		}
	})

	t.Run("currency mismatch", func(t *testing.T) {
		e := newExpense(t, "e1", "A", 1000, "A", "B")
		e.Amount = money.New(1000, "USD")
		_, err := ComputeBalances("EUR", []string{"A", "B"}, []*models.Expense{e})
		if !errors.Is(err, money.ErrCurrencyMismatch) {
			t.Errorf("error = %v, want ErrCurrencyMismatch", err)
		}
	})
}

func TestApplyTransfers(t *testing.T) {
	base := Balances{"A": eur(6000), "B": eur(-1500), "C": eur(-4500)}
	got, err := ApplyTransfers("EUR", base, []Transfer{
		{From: "C", To: "A", Amount: eur(4500)},
	})
	if err != nil {
		t.Fatalf("ApplyTransfers: %v", err)
	}
	want := Balances{"A": eur(1500), "B": eur(-1500), "C": eur(0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("balances = %v, want %v", got, want)
	}
	if base["A"] != eur(6000) {
		t.Error("ApplyTransfers must not mutate its input")
	}
}

func TestSummarize(t *testing.T) {
	expenses := []*models.Expense{
		newExpense(t, "e1", "A", 9000, "A", "B", "C"),
		newExpense(t, "e2", "B", 3000, "B", "C"),
	}
	got, err := Summarize("EUR", []string{"C", "B", "A"}, expenses, []Transfer{
		{From: "B", To: "A", Amount: eur(1500)},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := []MemberBalance{
		{MemberID: "A", Paid: eur(9000), Owed: eur(3000 + 1500), Net: eur(4500)},
		{MemberID: "B", Paid: eur(3000 + 1500), Owed: eur(3000 + 1500), Net: eur(0)},
		{MemberID: "C", Paid: eur(0), Owed: eur(3000 + 1500), Net: eur(-4500)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

// randomExpenses generates a reproducible expense history over members.
func randomExpenses(t *testing.T, rng *rand.Rand, members []string, n int) []*models.Expense {
	t.Helper()
	expenses := make([]*models.Expense, 0, n)
	for i := 0; i < n; i++ {
		payer := members[rng.Intn(len(members))]
		k := 1 + rng.Intn(len(members))
		perm := rng.Perm(len(members))[:k]
		participants := make([]string, k)
		for j, idx := range perm {
			participants[j] = members[idx]
		}
		amount := 1 + rng.Int63n(100_000)

		var policy SplitPolicy
		switch rng.Intn(3) {
		case 0:
			policy = EqualSplit{}
		case 1:
			percents := make([]int64, k)
			left := int64(FullPercent)
			for j := 0; j < k-1; j++ {
				percents[j] = rng.Int63n(left + 1)
				left -= percents[j]
			}
			percents[k-1] = left
			policy = PercentageSplit{Percents: percents}
		default:
			amounts := make([]money.Money, k)
			left := amount
			for j := 0; j < k-1; j++ {
				a := rng.Int63n(left + 1)
				amounts[j] = eur(a)
				left -= a
			}
			amounts[k-1] = eur(left)
			policy = CustomSplit{Amounts: amounts}
		}

		splits, err := ComputeSplits(eur(amount), participants, policy)
		if err != nil {
			t.Fatalf("ComputeSplits: %v", err)
		}
		expenses = append(expenses, &models.Expense{
			ID:        string(rune('a' + i%26)),
			Amount:    eur(amount),
			PaidBy:    payer,
			SplitType: policy.Type(),
			Splits:    splits,
		})
	}
	return expenses
}

func TestBalanceInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	members := []string{"ann", "ben", "cat", "dan", "eve", "fay"}

	for round := 0; round < 200; round++ {
		expenses := randomExpenses(t, rng, members, 1+rng.Intn(20))

		for _, e := range expenses {
			var sum int64
			for _, s := range e.Splits {
				sum += s.Amount.Amount
			}
			if sum != e.Amount.Amount {
				t.Fatalf("expense splits sum to %d, want %d", sum, e.Amount.Amount)
			}
		}

		b1, err := ComputeBalances("EUR", members, expenses)
		if err != nil {
			t.Fatalf("ComputeBalances: %v", err)
		}
		total, err := b1.Sum("EUR")
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		if !total.IsZero() {
			t.Fatalf("balances sum to %v, want 0", total)
		}

		// Order independence and idempotence.
		reversed := make([]*models.Expense, len(expenses))
		for i, e := range expenses {
			reversed[len(expenses)-1-i] = e
		}
		b2, err := ComputeBalances("EUR", members, reversed)
		if err != nil {
			t.Fatalf("ComputeBalances: %v", err)
		}
		if !reflect.DeepEqual(b1, b2) {
			t.Fatalf("recomputation differs: %v vs %v", b1, b2)
		}
	}
}
