// Package api defines the request and response messages of the splitledger
// Connect services. Messages are encoded as JSON; every amount is integer
// minor units plus an ISO 4217 currency code.
package api

// Money is an amount in minor units (e.g. cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type Member struct {
	ID          string `json:"id" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"max=128"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type Split struct {
	MemberID string `json:"member_id"`
	Amount   Money  `json:"amount"`
}

type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      Money   `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	Date        int64   `json:"date"`
	SplitType   string  `json:"split_type"`
	Splits      []Split `json:"splits"`
	CreatedAt   int64   `json:"created_at"`
}

// MemberBalance is one member's position after settled payments are applied.
type MemberBalance struct {
	MemberID string `json:"member_id"`
	Paid     Money  `json:"paid"`
	Owed     Money  `json:"owed"`
	Net      Money  `json:"net"`
}

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount Money  `json:"amount"`
}

// SettlementRecord is a payment a member has recorded.
type SettlementRecord struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    Money  `json:"amount"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
	CreatedAt int64  `json:"created_at"`
	SettledAt int64  `json:"settled_at,omitempty"`
}

// Group service

type CreateGroupRequest struct {
	Name     string   `json:"name" validate:"required,max=128"`
	Currency string   `json:"currency" validate:"required,len=3"`
	Members  []Member `json:"members" validate:"required,min=1,unique=ID,dive"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID string   `json:"group_id" validate:"required"`
	Members []Member `json:"members" validate:"required,min=1,unique=ID,dive"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetBalancesResponse struct {
	// Balances maps member ID to net amount. Positive means the member is owed.
	Balances map[string]Money `json:"balances"`
	Members  []MemberBalance  `json:"members"`
}

type GetSettlementsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

// Expense service

// ExpenseInput describes an expense and how to split it.
//
// SplitType selects which of Percents or CustomAmounts is read; both align
// index by index with Participants. Percents are whole percents and must sum
// to 100.
type ExpenseInput struct {
	Description   string   `json:"description" validate:"max=256"`
	Amount        Money    `json:"amount"`
	PaidBy        string   `json:"paid_by" validate:"required"`
	Date          int64    `json:"date,omitempty" validate:"gte=0"`
	SplitType     string   `json:"split_type" validate:"required,oneof=equal percentage custom"`
	Participants  []string `json:"participants" validate:"required,min=1,dive,required"`
	Percents      []int64  `json:"percents,omitempty" validate:"required_if=SplitType percentage"`
	CustomAmounts []Money  `json:"custom_amounts,omitempty" validate:"required_if=SplitType custom,dive"`
}

type AddExpenseRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	ExpenseInput
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
	ExpenseInput
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type RemoveExpenseResponse struct{}

// Settlement service

type RecordSettlementRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required,nefield=From"`
	Amount  Money  `json:"amount"`
	Note    string `json:"note,omitempty" validate:"max=256"`
}

type RecordSettlementResponse struct {
	Settlement *SettlementRecord `json:"settlement"`
}

type ConfirmSettlementRequest struct {
	SettlementID string `json:"settlement_id" validate:"required"`
}

type ConfirmSettlementResponse struct {
	Settlement *SettlementRecord `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListSettlementsResponse struct {
	Settlements []*SettlementRecord `json:"settlements"`
}
