package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	expenses *ledger.ExpenseLedger
}

// NewExpenseService creates a new ExpenseService backed by the given ledger.
func NewExpenseService(expenses *ledger.ExpenseLedger) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

// AddExpense validates and records a new expense, returning it with resolved splits.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"paid_by", req.Msg.PaidBy,
		"split_type", req.Msg.SplitType,
		"participants_count", len(req.Msg.Participants),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	in, err := newExpenseInput(req.Msg.GroupID, req.Msg.ExpenseInput)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.expenses.AddExpense(ctx, in)
	if err != nil {
		slog.Error("AddExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "group_id", expense.GroupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses in insertion order.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense replaces an expense wholesale.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"split_type", req.Msg.SplitType,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	in, err := newExpenseInput("", req.Msg.ExpenseInput)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.expenses.UpdateExpense(ctx, req.Msg.ExpenseID, in)
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "group_id", expense.GroupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *ExpenseService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.expenses.RemoveExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("RemoveExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense removed", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

func newExpenseInput(groupID string, in api.ExpenseInput) (ledger.NewExpense, error) {
	amount, err := fromAPIMoney(in.Amount)
	if err != nil {
		return ledger.NewExpense{}, err
	}
	policy, err := splitPolicy(in)
	if err != nil {
		return ledger.NewExpense{}, err
	}
	return ledger.NewExpense{
		GroupID:      groupID,
		Description:  in.Description,
		Amount:       amount,
		PaidBy:       in.PaidBy,
		Date:         in.Date,
		Participants: in.Participants,
		Policy:       policy,
	}, nil
}
