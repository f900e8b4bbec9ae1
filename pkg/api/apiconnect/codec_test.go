package apiconnect

import (
	"testing"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCodecRejectsUnknownFields(t *testing.T) {
	var req api.GetGroupRequest
	err := Codec{}.Unmarshal([]byte(`{"group_id":"g1","groupId":"g2"}`), &req)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestCodecEmbeddedInput(t *testing.T) {
	data := []byte(`{
		"group_id": "g1",
		"amount": {"amount": 9000, "currency": "EUR"},
		"paid_by": "A",
		"split_type": "equal",
		"participants": ["A", "B", "C"]
	}`)
	var req api.AddExpenseRequest
	if err := (Codec{}).Unmarshal(data, &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.GroupID != "g1" || req.PaidBy != "A" || req.Amount.Amount != 9000 {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.Participants) != 3 {
		t.Errorf("participants: expected 3, got %d", len(req.Participants))
	}
}

func TestCodecEmptyBody(t *testing.T) {
	var req api.ListGroupsRequest
	if err := (Codec{}).Unmarshal(nil, &req); err != nil {
		t.Errorf("empty body should decode to zero message: %v", err)
	}
	if (Codec{}).Name() != "json" {
		t.Errorf("codec name: expected json, got %s", Codec{}.Name())
	}
}
