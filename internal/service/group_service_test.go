package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:     "Roommates",
		Currency: "eur",
		Members:  []api.Member{{ID: "alice", DisplayName: "Alice"}, {ID: "bob"}, {ID: "charlie"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group == nil {
		t.Fatal("expected group in response")
	}
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", group.Name)
	}
	if group.Currency != "EUR" {
		t.Errorf("currency: expected 'EUR', got '%s'", group.Currency)
	}
	if len(group.Members) != 3 {
		t.Fatalf("members: expected 3, got %d", len(group.Members))
	}
	if group.Members[1].DisplayName != "bob" {
		t.Errorf("display name should default to ID, got '%s'", group.Members[1].DisplayName)
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroup_Invalid(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{"missing name", &api.CreateGroupRequest{Currency: "EUR", Members: []api.Member{{ID: "a"}}}},
		{"no members", &api.CreateGroupRequest{Name: "x", Currency: "EUR"}},
		{"duplicate members", &api.CreateGroupRequest{Name: "x", Currency: "EUR", Members: []api.Member{{ID: "a"}, {ID: "a"}}}},
		{"unknown currency", &api.CreateGroupRequest{Name: "x", Currency: "ZZZ", Members: []api.Member{{ID: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	created := createTestGroup(t, c, "diana", "eve")

	resp, err := c.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: created.ID,
	}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.ID != created.ID {
		t.Errorf("ID: expected '%s', got '%s'", created.ID, resp.Msg.Group.ID)
	}
	if len(resp.Msg.Group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(resp.Msg.Group.Members))
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := c.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: "nonexistent-id",
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestListGroups(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := c.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(resp.Msg.Groups))
	}

	createTestGroup(t, c, "a", "b")
	createTestGroup(t, c, "c")

	resp, err = c.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}
}

func TestAddMembers(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	group := createTestGroup(t, c, "a", "b")

	resp, err := c.groups.AddMembers(context.Background(), connect.NewRequest(&api.AddMembersRequest{
		GroupID: group.ID,
		Members: []api.Member{{ID: "c", DisplayName: "Carol"}},
	}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if len(resp.Msg.Group.Members) != 3 || resp.Msg.Group.Members[2].ID != "c" {
		t.Errorf("expected c appended, got %+v", resp.Msg.Group.Members)
	}

	_, err = c.groups.AddMembers(context.Background(), connect.NewRequest(&api.AddMembersRequest{
		GroupID: group.ID,
		Members: []api.Member{{ID: "a"}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.groups.AddMembers(context.Background(), connect.NewRequest(&api.AddMembersRequest{
		GroupID: "nonexistent-id",
		Members: []api.Member{{ID: "z"}},
	}))
	assertCode(t, err, connect.CodeNotFound)

	// The new member can take part in expenses and starts at zero.
	addEqualExpense(t, c, group.ID, "c", 300, "a", "b", "c")
	balances, err := c.groups.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := balances.Msg.Balances["c"].Amount; got != 200 {
		t.Errorf("c balance: expected 200, got %d", got)
	}
}

func TestGetBalancesAndSettlements(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, c, "A", "B", "C")
	addEqualExpense(t, c, group.ID, "A", 9000, "A", "B", "C")
	addEqualExpense(t, c, group.ID, "B", 3000, "B", "C")

	resp, err := c.groups.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	want := map[string]int64{"A": 6000, "B": -1500, "C": -4500}
	for member, amount := range want {
		if got := resp.Msg.Balances[member]; got.Amount != amount || got.Currency != "EUR" {
			t.Errorf("balance %s: expected %d EUR, got %+v", member, amount, got)
		}
	}
	if len(resp.Msg.Members) != 3 {
		t.Fatalf("members: expected 3, got %d", len(resp.Msg.Members))
	}
	a := resp.Msg.Members[0]
	if a.MemberID != "A" || a.Paid.Amount != 9000 || a.Owed.Amount != 3000 || a.Net.Amount != 6000 {
		t.Errorf("unexpected summary for A: %+v", a)
	}

	settlements, err := c.groups.GetSettlements(ctx, connect.NewRequest(&api.GetSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	wantSettlements := []api.Settlement{
		{From: "C", To: "A", Amount: eur(4500)},
		{From: "B", To: "A", Amount: eur(1500)},
	}
	if len(settlements.Msg.Settlements) != len(wantSettlements) {
		t.Fatalf("settlements: expected %d, got %d", len(wantSettlements), len(settlements.Msg.Settlements))
	}
	for i, s := range settlements.Msg.Settlements {
		if s != wantSettlements[i] {
			t.Errorf("settlement %d: expected %+v, got %+v", i, wantSettlements[i], s)
		}
	}

	_, err = c.groups.GetSettlements(ctx, connect.NewRequest(&api.GetSettlementsRequest{GroupID: "nonexistent-id"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetSettlements_EmptyGroup(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	group := createTestGroup(t, c, "solo")
	resp, err := c.groups.GetSettlements(context.Background(), connect.NewRequest(&api.GetSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlements failed: %v", err)
	}
	if len(resp.Msg.Settlements) != 0 {
		t.Errorf("expected no settlements, got %d", len(resp.Msg.Settlements))
	}
}
