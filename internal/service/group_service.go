package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store   storage.Store
	locks   *ledger.Locks
	tracker *ledger.SettlementTracker
}

// NewGroupService creates a new GroupService. locks must be the table shared
// with the ledger so membership changes serialise with expense writes.
func NewGroupService(store storage.Store, locks *ledger.Locks, tracker *ledger.SettlementTracker) *GroupService {
	return &GroupService{store: store, locks: locks, tracker: tracker}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"currency", req.Msg.Currency,
		"members_count", len(req.Msg.Members),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	currency, err := money.ParseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}
	members, err := fromAPIMembers(req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Name:     req.Msg.Name,
		Currency: currency,
		Members:  members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMembers appends new members to a group. Existing member IDs are rejected.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.Members),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	members, err := fromAPIMembers(req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.addMembers(ctx, req.Msg.GroupID, members)
	if err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Members added", "group_id", group.ID, "members_count", len(group.Members))

	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(group)}), nil
}

func (s *GroupService) addMembers(ctx context.Context, groupID string, members []models.Member) (*models.Group, error) {
	unlock := s.locks.Lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if group.HasMember(m.ID) {
			return nil, fmt.Errorf("%w: %s is already in group %s", models.ErrDuplicateMember, m.ID, groupID)
		}
	}
	if err := s.store.AddGroupMembers(ctx, groupID, members); err != nil {
		return nil, err
	}
	group.Members = append(group.Members, members...)
	return group, nil
}

// GetBalances returns every member's outstanding balance, with settled
// payments applied.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	summary, err := s.tracker.Summary(ctx, groupID)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	balances := make(map[string]api.Money, len(summary))
	members := make([]api.MemberBalance, len(summary))
	for i, b := range summary {
		balances[b.MemberID] = toAPIMoney(b.Net)
		members[i] = api.MemberBalance{
			MemberID: b.MemberID,
			Paid:     toAPIMoney(b.Paid),
			Owed:     toAPIMoney(b.Owed),
			Net:      toAPIMoney(b.Net),
		}
	}

	slog.Info("GetBalances successful", "group_id", groupID, "members_count", len(members))

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: balances,
		Members:  members,
	}), nil
}

// GetSettlements returns the minimal list of payments that settles the group.
func (s *GroupService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetSettlements request received", "group_id", groupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	plan, err := s.tracker.Plan(ctx, groupID)
	if err != nil {
		slog.Error("GetSettlements failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	settlements := make([]api.Settlement, len(plan))
	for i, p := range plan {
		settlements[i] = api.Settlement{From: p.From, To: p.To, Amount: toAPIMoney(p.Amount)}
	}

	slog.Info("GetSettlements successful", "group_id", groupID, "settlements_count", len(settlements))

	return connect.NewResponse(&api.GetSettlementsResponse{Settlements: settlements}), nil
}
