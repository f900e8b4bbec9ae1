package service

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIMoney(m money.Money) api.Money {
	return api.Money{Amount: m.Amount, Currency: m.Currency}
}

// fromAPIMoney normalises the currency code of m.
func fromAPIMoney(m api.Money) (money.Money, error) {
	code, err := money.ParseCurrency(m.Currency)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(m.Amount, code), nil
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{ID: m.ID, DisplayName: m.DisplayName}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func fromAPIMembers(in []api.Member) ([]models.Member, error) {
	seen := make(map[string]bool, len(in))
	members := make([]models.Member, len(in))
	for i, m := range in {
		if seen[m.ID] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateMember, m.ID)
		}
		seen[m.ID] = true
		name := m.DisplayName
		if name == "" {
			name = m.ID
		}
		members[i] = models.Member{ID: m.ID, DisplayName: name}
	}
	return members, nil
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{MemberID: s.MemberID, Amount: toAPIMoney(s.Amount)}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      toAPIMoney(e.Amount),
		PaidBy:      e.PaidBy,
		Date:        e.Date,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPISettlementRecord(r *models.SettlementRecord) *api.SettlementRecord {
	return &api.SettlementRecord{
		ID:        r.ID,
		GroupID:   r.GroupID,
		From:      r.From,
		To:        r.To,
		Amount:    toAPIMoney(r.Amount),
		Status:    string(r.Status),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		SettledAt: r.SettledAt,
	}
}

// splitPolicy builds the calculator policy selected by in.SplitType.
func splitPolicy(in api.ExpenseInput) (calculator.SplitPolicy, error) {
	switch models.SplitType(in.SplitType) {
	case models.SplitEqual:
		return calculator.EqualSplit{}, nil
	case models.SplitPercentage:
		return calculator.PercentageSplit{Percents: in.Percents}, nil
	case models.SplitCustom:
		amounts := make([]money.Money, len(in.CustomAmounts))
		for i, a := range in.CustomAmounts {
			m, err := fromAPIMoney(a)
			if err != nil {
				return nil, err
			}
			amounts[i] = m
		}
		return calculator.CustomSplit{Amounts: amounts}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", models.ErrInvalidSplitWeights, in.SplitType)
	}
}
