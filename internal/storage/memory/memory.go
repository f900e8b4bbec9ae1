// Package memory provides an in-process implementation of storage.Store.
// Data lives for the lifetime of the process; it backs DATA_BACKEND=memory
// and the ledger tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store over slices guarded by one RWMutex.
// Records are copied on the way in and out.
type Store struct {
	mu          sync.RWMutex
	groups      []*models.Group
	expenses    []*models.Expense
	settlements []*models.SettlementRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// CreateGroup stores a new group, generating its ID and creation time if unset.
func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findGroup(group.ID) != nil {
		return fmt.Errorf("group already exists: %s", group.ID)
	}
	s.groups = append(s.groups, cloneGroup(group))
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.findGroup(groupID)
	if g == nil {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	return cloneGroup(g), nil
}

// ListGroups retrieves all groups in creation order.
func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = cloneGroup(g)
	}
	return out, nil
}

// AddGroupMembers appends members after the group's existing ones.
func (s *Store) AddGroupMembers(_ context.Context, groupID string, members []models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.findGroup(groupID)
	if g == nil {
		return fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	g.Members = append(g.Members, members...)
	return nil
}

// CreateExpense stores a new expense with its splits.
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, cloneExpense(expense))
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.expenseIndex(expenseID)
	if i < 0 {
		return nil, fmt.Errorf("%w: expense %s", models.ErrNotFound, expenseID)
	}
	return cloneExpense(s.expenses[i]), nil
}

// ListExpensesByGroup retrieves all expenses of a group in insertion order.
func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Expense
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			out = append(out, cloneExpense(e))
		}
	}
	return out, nil
}

// ReplaceExpense overwrites an expense in place, keeping its position.
func (s *Store) ReplaceExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(expense.ID)
	if i < 0 {
		return fmt.Errorf("%w: expense %s", models.ErrNotFound, expense.ID)
	}
	s.expenses[i] = cloneExpense(expense)
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(expenseID)
	if i < 0 {
		return fmt.Errorf("%w: expense %s", models.ErrNotFound, expenseID)
	}
	s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
	return nil
}

// CreateSettlementRecord stores a new settlement record.
func (s *Store) CreateSettlementRecord(_ context.Context, record *models.SettlementRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *record
	s.settlements = append(s.settlements, &r)
	return nil
}

// GetSettlementRecord retrieves a settlement record by ID.
func (s *Store) GetSettlementRecord(_ context.Context, recordID string) (*models.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.settlements {
		if r.ID == recordID {
			out := *r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: settlement %s", models.ErrNotFound, recordID)
}

// ListSettlementRecordsByGroup retrieves all settlement records for a group in insertion order.
func (s *Store) ListSettlementRecordsByGroup(_ context.Context, groupID string) ([]*models.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.SettlementRecord
	for _, r := range s.settlements {
		if r.GroupID == groupID {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

// UpdateSettlementRecord stores a record's status and settlement time.
func (s *Store) UpdateSettlementRecord(_ context.Context, record *models.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.settlements {
		if r.ID == record.ID {
			r.Status = record.Status
			r.SettledAt = record.SettledAt
			return nil
		}
	}
	return fmt.Errorf("%w: settlement %s", models.ErrNotFound, record.ID)
}

func (s *Store) findGroup(id string) *models.Group {
	for _, g := range s.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *Store) expenseIndex(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	c.Members = append([]models.Member(nil), g.Members...)
	return &c
}

func cloneExpense(e *models.Expense) *models.Expense {
	c := *e
	c.Splits = append([]models.Split(nil), e.Splits...)
	return &c
}
