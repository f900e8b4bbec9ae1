package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	tracker *ledger.SettlementTracker
}

// NewSettlementService creates a new SettlementService backed by the given tracker.
func NewSettlementService(tracker *ledger.SettlementTracker) *SettlementService {
	return &SettlementService{tracker: tracker}
}

// RecordSettlement records a pending payment between two members.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount.Amount,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	amount, err := fromAPIMoney(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	record, err := s.tracker.RecordSettlement(ctx, ledger.NewSettlement{
		GroupID: req.Msg.GroupID,
		From:    req.Msg.From,
		To:      req.Msg.To,
		Amount:  amount,
		Note:    req.Msg.Note,
	})
	if err != nil {
		slog.Error("RecordSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded", "group_id", record.GroupID, "settlement_id", record.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPISettlementRecord(record)}), nil
}

// ConfirmSettlement marks a pending settlement as settled.
func (s *SettlementService) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	slog.Info("ConfirmSettlement request received", "settlement_id", req.Msg.SettlementID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	record, err := s.tracker.ConfirmSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("ConfirmSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement confirmed", "group_id", record.GroupID, "settlement_id", record.ID)

	return connect.NewResponse(&api.ConfirmSettlementResponse{Settlement: toAPISettlementRecord(record)}), nil
}

// ListSettlements returns every settlement record of a group.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	records, err := s.tracker.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.SettlementRecord, len(records))
	for i, r := range records {
		out[i] = toAPISettlementRecord(r)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}
