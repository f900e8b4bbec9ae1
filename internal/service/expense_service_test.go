package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestAddExpense_SplitTypes(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	group := createTestGroup(t, c, "a", "b", "c")

	tests := []struct {
		name  string
		input api.ExpenseInput
		want  []int64
	}{
		{
			name: "equal remainder goes to first participant",
			input: api.ExpenseInput{
				Amount: eur(100), PaidBy: "a", SplitType: "equal",
				Participants: []string{"a", "b", "c"},
			},
			want: []int64{34, 33, 33},
		},
		{
			name: "percentage",
			input: api.ExpenseInput{
				Amount: eur(2000), PaidBy: "b", SplitType: "percentage",
				Participants: []string{"a", "b", "c"},
				Percents:     []int64{50, 30, 20},
			},
			want: []int64{1000, 600, 400},
		},
		{
			name: "custom",
			input: api.ExpenseInput{
				Amount: eur(1000), PaidBy: "c", SplitType: "custom",
				Participants:  []string{"a", "c"},
				CustomAmounts: []api.Money{eur(250), eur(750)},
			},
			want: []int64{250, 750},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				GroupID:      group.ID,
				ExpenseInput: tt.input,
			}))
			if err != nil {
				t.Fatalf("AddExpense failed: %v", err)
			}
			expense := resp.Msg.Expense
			if expense.ID == "" {
				t.Error("expected non-empty expense ID")
			}
			if expense.SplitType != tt.input.SplitType {
				t.Errorf("split type: expected %s, got %s", tt.input.SplitType, expense.SplitType)
			}
			if len(expense.Splits) != len(tt.want) {
				t.Fatalf("splits: expected %d, got %d", len(tt.want), len(expense.Splits))
			}
			for i, s := range expense.Splits {
				if s.MemberID != tt.input.Participants[i] {
					t.Errorf("split %d member: expected %s, got %s", i, tt.input.Participants[i], s.MemberID)
				}
				if s.Amount.Amount != tt.want[i] {
					t.Errorf("split %d amount: expected %d, got %d", i, tt.want[i], s.Amount.Amount)
				}
			}
		})
	}

	list, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(list.Msg.Expenses))
	}
	if list.Msg.Expenses[0].SplitType != "equal" || list.Msg.Expenses[2].SplitType != "custom" {
		t.Error("expenses not in insertion order")
	}
}

func TestAddExpense_Errors(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	group := createTestGroup(t, c, "a", "b")
	valid := func() api.ExpenseInput {
		return api.ExpenseInput{
			Amount: eur(100), PaidBy: "a", SplitType: "equal", Participants: []string{"a", "b"},
		}
	}

	tests := []struct {
		name    string
		groupID string
		mutate  func(*api.ExpenseInput)
		want    connect.Code
	}{
		{"unknown payer", group.ID, func(in *api.ExpenseInput) { in.PaidBy = "z" }, connect.CodeInvalidArgument},
		{"unknown participant", group.ID, func(in *api.ExpenseInput) { in.Participants = []string{"a", "z"} }, connect.CodeInvalidArgument},
		{"percentages do not sum to 100", group.ID, func(in *api.ExpenseInput) {
			in.SplitType = "percentage"
			in.Percents = []int64{60, 30}
		}, connect.CodeInvalidArgument},
		{"custom mismatch", group.ID, func(in *api.ExpenseInput) {
			in.SplitType = "custom"
			in.CustomAmounts = []api.Money{eur(60), eur(30)}
		}, connect.CodeInvalidArgument},
		{"bad split type", group.ID, func(in *api.ExpenseInput) { in.SplitType = "shares" }, connect.CodeInvalidArgument},
		{"negative amount", group.ID, func(in *api.ExpenseInput) { in.Amount = eur(-100) }, connect.CodeInvalidArgument},
		{"other currency", group.ID, func(in *api.ExpenseInput) { in.Amount = api.Money{Amount: 100, Currency: "USD"} }, connect.CodeInvalidArgument},
		{"missing group", "nonexistent-id", func(in *api.ExpenseInput) {}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				GroupID:      tt.groupID,
				ExpenseInput: in,
			}))
			assertCode(t, err, tt.want)
		})
	}
}

func TestUpdateExpense(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, c, "a", "b")
	original := addEqualExpense(t, c, group.ID, "a", 100, "a", "b")

	resp, err := c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: original.ID,
		ExpenseInput: api.ExpenseInput{
			Description:   "corrected",
			Amount:        eur(90),
			PaidBy:        "b",
			SplitType:     "custom",
			Participants:  []string{"a", "b"},
			CustomAmounts: []api.Money{eur(90), eur(0)},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	updated := resp.Msg.Expense
	if updated.ID != original.ID || updated.CreatedAt != original.CreatedAt {
		t.Errorf("update must keep ID and CreatedAt: %+v", updated)
	}
	if updated.Description != "corrected" || updated.PaidBy != "b" {
		t.Errorf("unexpected updated expense: %+v", updated)
	}

	balances, err := c.groups.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if balances.Msg.Balances["a"].Amount != -90 || balances.Msg.Balances["b"].Amount != 90 {
		t.Errorf("unexpected balances after update: %+v", balances.Msg.Balances)
	}

	_, err = c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: "nonexistent-id",
		ExpenseInput: api.ExpenseInput{
			Amount: eur(1), PaidBy: "a", SplitType: "equal", Participants: []string{"a"},
		},
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveExpense(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, c, "a", "b")
	first := addEqualExpense(t, c, group.ID, "a", 100, "a", "b")
	addEqualExpense(t, c, group.ID, "b", 40, "a", "b")

	if _, err := c.expenses.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ExpenseID: first.ID})); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}

	_, err := c.expenses.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ExpenseID: first.ID}))
	assertCode(t, err, connect.CodeNotFound)

	list, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 || list.Msg.Expenses[0].Amount.Amount != 40 {
		t.Errorf("expected only the second expense to remain, got %+v", list.Msg.Expenses)
	}

	_, err = c.expenses.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
