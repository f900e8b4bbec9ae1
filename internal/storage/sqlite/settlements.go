package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

const settlementColumns = "id, group_id, from_member, to_member, amount, currency, status, note, created_at, settled_at"

// CreateSettlementRecord persists a new settlement record to the database.
func (s *SQLiteStore) CreateSettlementRecord(ctx context.Context, record *models.SettlementRecord) error {
	// Generate ID if not set
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	var note interface{} = nil
	if record.Note != "" {
		note = record.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlement_records (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.GroupID, record.From, record.To,
		record.Amount.Amount, record.Amount.Currency, string(record.Status), note,
		record.CreatedAt, record.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlementRecord retrieves a settlement record by ID.
func (s *SQLiteStore) GetSettlementRecord(ctx context.Context, recordID string) (*models.SettlementRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlement_records WHERE id = ?", recordID)
	record, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: settlement %s", models.ErrNotFound, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return record, nil
}

// ListSettlementRecordsByGroup retrieves all settlement records for a group in insertion order.
func (s *SQLiteStore) ListSettlementRecordsByGroup(ctx context.Context, groupID string) ([]*models.SettlementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlement_records WHERE group_id = ? ORDER BY seq",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var records []*models.SettlementRecord
	for rows.Next() {
		record, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return records, nil
}

// UpdateSettlementRecord stores a record's status and settlement time.
func (s *SQLiteStore) UpdateSettlementRecord(ctx context.Context, record *models.SettlementRecord) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlement_records SET status = ?, settled_at = ? WHERE id = ?",
		string(record.Status), record.SettledAt, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check settlement update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: settlement %s", models.ErrNotFound, record.ID)
	}
	return nil
}

func scanSettlement(row rowScanner) (*models.SettlementRecord, error) {
	var (
		r        models.SettlementRecord
		amount   int64
		currency string
		status   string
		note     sql.NullString
	)
	if err := row.Scan(&r.ID, &r.GroupID, &r.From, &r.To, &amount, &currency,
		&status, &note, &r.CreatedAt, &r.SettledAt); err != nil {
		return nil, err
	}
	r.Amount = money.New(amount, currency)
	r.Status = models.SettlementStatus(status)
	if note.Valid {
		r.Note = note.String
	}
	return &r, nil
}
