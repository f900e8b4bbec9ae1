// Package storetest holds a behavioural test suite every storage.Store
// implementation must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// Run exercises store against the storage.Store contract.
// newStore must return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("CreateGroup generates ID and keeps member order", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		group := &models.Group{
			Name:     "Roommates",
			Currency: "EUR",
			Members: []models.Member{
				{ID: "zoe", DisplayName: "Zoe"},
				{ID: "adam", DisplayName: "Adam"},
			},
		}
		require.NoError(t, store.CreateGroup(ctx, group))
		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, group.Name, got.Name)
		assert.Equal(t, "EUR", got.Currency)
		assert.Equal(t, []string{"zoe", "adam"}, got.MemberIDs())

		require.NoError(t, store.AddGroupMembers(ctx, group.ID, []models.Member{{ID: "bea", DisplayName: "Bea"}}))
		got, err = store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"zoe", "adam", "bea"}, got.MemberIDs())

		groups, err := store.ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Members, 3)
	})

	t.Run("missing group is not found", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)

		err = store.AddGroupMembers(ctx, "nonexistent-id", []models.Member{{ID: "x"}})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("expenses round trip in insertion order", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		group := createGroup(t, store)

		first := newExpense(group.ID, "a", 900, "a", "b", "c")
		second := newExpense(group.ID, "b", 300, "b", "c")
		require.NoError(t, store.CreateExpense(ctx, first))
		require.NoError(t, store.CreateExpense(ctx, second))
		assert.NotEmpty(t, first.ID)
		assert.NotZero(t, first.CreatedAt)

		got, err := store.GetExpense(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		list, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first, list[0])
		assert.Equal(t, second, list[1])

		other, err := store.ListExpensesByGroup(ctx, "other-group")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("ReplaceExpense keeps position and rewrites splits", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		group := createGroup(t, store)

		first := newExpense(group.ID, "a", 900, "a", "b", "c")
		second := newExpense(group.ID, "b", 300, "b", "c")
		require.NoError(t, store.CreateExpense(ctx, first))
		require.NoError(t, store.CreateExpense(ctx, second))

		replaced := newExpense(group.ID, "c", 100, "c")
		replaced.ID = first.ID
		replaced.CreatedAt = first.CreatedAt
		replaced.Description = "fixed"
		require.NoError(t, store.ReplaceExpense(ctx, replaced))

		list, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, replaced, list[0])
		assert.Equal(t, second, list[1])

		missing := newExpense(group.ID, "a", 100, "a")
		missing.ID = "nonexistent-id"
		assert.ErrorIs(t, store.ReplaceExpense(ctx, missing), models.ErrNotFound)
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		group := createGroup(t, store)

		e := newExpense(group.ID, "a", 900, "a", "b")
		require.NoError(t, store.CreateExpense(ctx, e))
		require.NoError(t, store.DeleteExpense(ctx, e.ID))

		_, err := store.GetExpense(ctx, e.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, e.ID), models.ErrNotFound)

		list, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("settlement records", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		group := createGroup(t, store)

		r1 := &models.SettlementRecord{
			GroupID: group.ID, From: "c", To: "a",
			Amount: money.New(450, "EUR"), Status: models.SettlementPending, Note: "cash",
		}
		r2 := &models.SettlementRecord{
			GroupID: group.ID, From: "b", To: "a",
			Amount: money.New(150, "EUR"), Status: models.SettlementPending,
		}
		require.NoError(t, store.CreateSettlementRecord(ctx, r1))
		require.NoError(t, store.CreateSettlementRecord(ctx, r2))
		assert.NotEmpty(t, r1.ID)
		assert.NotZero(t, r1.CreatedAt)

		got, err := store.GetSettlementRecord(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, r1, got)

		r1.Status = models.SettlementSettled
		r1.SettledAt = r1.CreatedAt + 60
		require.NoError(t, store.UpdateSettlementRecord(ctx, r1))

		list, err := store.ListSettlementRecordsByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, r1, list[0])
		assert.Equal(t, r2, list[1])

		_, err = store.GetSettlementRecord(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
		missing := &models.SettlementRecord{ID: "nonexistent-id", Status: models.SettlementSettled}
		assert.ErrorIs(t, store.UpdateSettlementRecord(ctx, missing), models.ErrNotFound)
	})
}

func createGroup(t *testing.T, store storage.Store) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:     "Trip",
		Currency: "EUR",
		Members:  []models.Member{{ID: "a", DisplayName: "A"}, {ID: "b", DisplayName: "B"}, {ID: "c", DisplayName: "C"}},
	}
	require.NoError(t, store.CreateGroup(context.Background(), group))
	return group
}

// newExpense builds an expense whose splits are even, with the remainder on
// the first participant. Stores do not validate, so this only needs to be
// self-consistent.
func newExpense(groupID, payer string, amount int64, participants ...string) *models.Expense {
	n := int64(len(participants))
	splits := make([]models.Split, len(participants))
	for i, p := range participants {
		share := amount / n
		if i == 0 {
			share += amount % n
		}
		splits[i] = models.Split{MemberID: p, Amount: money.New(share, "EUR")}
	}
	return &models.Expense{
		GroupID:     groupID,
		Description: "expense paid by " + payer,
		Amount:      money.New(amount, "EUR"),
		PaidBy:      payer,
		Date:        1700000000,
		SplitType:   models.SplitEqual,
		Splits:      splits,
	}
}
