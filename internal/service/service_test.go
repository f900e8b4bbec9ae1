package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type testClients struct {
	groups      apiconnect.GroupServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
}

// setupTestServer starts all three services on a temp SQLite database.
func setupTestServer(t *testing.T) (*testClients, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	locks := ledger.NewLocks()
	expenses := ledger.NewExpenseLedger(store, locks, nil)
	tracker := ledger.NewSettlementTracker(store, locks, nil)

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(store, locks, tracker), interceptors)
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(NewExpenseService(expenses), interceptors)
	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(NewSettlementService(tracker), interceptors)

	mux := http.NewServeMux()
	mux.Handle(groupPath, groupHandler)
	mux.Handle(expensePath, expenseHandler)
	mux.Handle(settlementPath, settlementHandler)

	server := httptest.NewServer(mux)

	clients := &testClients{
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return clients, cleanup
}

func eur(amount int64) api.Money {
	return api.Money{Amount: amount, Currency: "EUR"}
}

// createTestGroup creates a EUR group whose members use their IDs as names.
func createTestGroup(t *testing.T, c *testClients, members ...string) *api.Group {
	t.Helper()
	req := &api.CreateGroupRequest{Name: "Trip", Currency: "EUR"}
	for _, m := range members {
		req.Members = append(req.Members, api.Member{ID: m})
	}
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func addEqualExpense(t *testing.T, c *testClients, groupID, payer string, amount int64, participants ...string) *api.Expense {
	t.Helper()
	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID: groupID,
		ExpenseInput: api.ExpenseInput{
			Description:  "shared",
			Amount:       eur(amount),
			PaidBy:       payer,
			SplitType:    "equal",
			Participants: participants,
		},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}
