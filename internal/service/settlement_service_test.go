package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestSettlementFlow(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, c, "A", "B", "C")
	addEqualExpense(t, c, group.ID, "A", 9000, "A", "B", "C")
	addEqualExpense(t, c, group.ID, "B", 3000, "B", "C")

	recorded, err := c.settlements.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		GroupID: group.ID,
		From:    "C",
		To:      "A",
		Amount:  eur(4500),
		Note:    "bank transfer",
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	record := recorded.Msg.Settlement
	if record.Status != "pending" || record.SettledAt != 0 {
		t.Errorf("new record should be pending: %+v", record)
	}

	// Pending settlements do not change the plan.
	plan, err := c.groups.GetSettlements(ctx, connect.NewRequest(&api.GetSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	if len(plan.Msg.Settlements) != 2 {
		t.Fatalf("expected 2 settlements before confirmation, got %d", len(plan.Msg.Settlements))
	}

	confirmed, err := c.settlements.ConfirmSettlement(ctx, connect.NewRequest(&api.ConfirmSettlementRequest{
		SettlementID: record.ID,
	}))
	if err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}
	if confirmed.Msg.Settlement.Status != "settled" || confirmed.Msg.Settlement.SettledAt == 0 {
		t.Errorf("confirmed record should be settled: %+v", confirmed.Msg.Settlement)
	}

	plan, err = c.groups.GetSettlements(ctx, connect.NewRequest(&api.GetSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	want := api.Settlement{From: "B", To: "A", Amount: eur(1500)}
	if len(plan.Msg.Settlements) != 1 || plan.Msg.Settlements[0] != want {
		t.Errorf("expected [%+v], got %+v", want, plan.Msg.Settlements)
	}

	_, err = c.settlements.ConfirmSettlement(ctx, connect.NewRequest(&api.ConfirmSettlementRequest{
		SettlementID: record.ID,
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	list, err := c.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(list.Msg.Settlements) != 1 || list.Msg.Settlements[0].Note != "bank transfer" {
		t.Errorf("unexpected settlement list: %+v", list.Msg.Settlements)
	}
}

func TestRecordSettlement_Errors(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	group := createTestGroup(t, c, "a", "b")

	tests := []struct {
		name string
		req  *api.RecordSettlementRequest
		want connect.Code
	}{
		{"self payment", &api.RecordSettlementRequest{GroupID: group.ID, From: "a", To: "a", Amount: eur(10)}, connect.CodeInvalidArgument},
		{"zero amount", &api.RecordSettlementRequest{GroupID: group.ID, From: "a", To: "b", Amount: eur(0)}, connect.CodeInvalidArgument},
		{"unknown member", &api.RecordSettlementRequest{GroupID: group.ID, From: "a", To: "z", Amount: eur(10)}, connect.CodeInvalidArgument},
		{"missing currency", &api.RecordSettlementRequest{GroupID: group.ID, From: "a", To: "b", Amount: api.Money{Amount: 10}}, connect.CodeInvalidArgument},
		{"unknown group", &api.RecordSettlementRequest{GroupID: "nonexistent-id", From: "a", To: "b", Amount: eur(10)}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settlements.RecordSettlement(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestConfirmSettlement_NotFound(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := c.settlements.ConfirmSettlement(context.Background(), connect.NewRequest(&api.ConfirmSettlementRequest{
		SettlementID: "nonexistent-id",
	}))
	assertCode(t, err, connect.CodeNotFound)
}
