package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gmendes/orca/internal/model"
)

// CreateRecord persists a new catalog record together with its initial price
// history. The caller must have seeded exactly the history it wants written;
// creation is the only path that writes more than one history row at once
// (and then only if the record was built that way deliberately).
func (s *SQLiteStorage) CreateRecord(ctx context.Context, record *model.CatalogRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_records (id, kind, name, unit, tag, notes, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Kind, record.Name, record.Unit, record.Tag, record.Notes, record.Value, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	for _, entry := range record.History {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_history (record_id, value, recorded_at)
			VALUES (?, ?, ?)
		`, record.ID, entry.Value, entry.RecordedAt); err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}

	return tx.Commit()
}

// GetRecord retrieves one catalog record with its full price history.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*model.CatalogRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var record model.CatalogRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, name, unit, tag, notes, value, created_at
		FROM catalog_records
		WHERE id = ?
	`, id).Scan(
		&record.ID,
		&record.Kind,
		&record.Name,
		&record.Unit,
		&record.Tag,
		&record.Notes,
		&record.Value,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	history, err := s.getHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	record.History = history

	return &record, nil
}

// getHistory loads a record's price history in insertion order.
func (s *SQLiteStorage) getHistory(ctx context.Context, recordID string) ([]model.PriceEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value, recorded_at
		FROM price_history
		WHERE record_id = ?
		ORDER BY id ASC
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []model.PriceEntry
	for rows.Next() {
		var entry model.PriceEntry
		if err := rows.Scan(&entry.Value, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}

// ListRecords retrieves all catalog records of one kind, history included,
// ordered by name.
func (s *SQLiteStorage) ListRecords(ctx context.Context, kind model.RecordKind) ([]model.CatalogRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidRecord, kind)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name, unit, tag, notes, value, created_at
		FROM catalog_records
		WHERE kind = ?
		ORDER BY name COLLATE NOCASE ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CatalogRecord
	for rows.Next() {
		var record model.CatalogRecord
		if err := rows.Scan(
			&record.ID,
			&record.Kind,
			&record.Name,
			&record.Unit,
			&record.Tag,
			&record.Notes,
			&record.Value,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		history, err := s.getHistory(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].History = history
	}

	return records, nil
}

// AppendPrice appends one history entry to an existing record and refreshes
// the current value and notes. History rows are never updated or deleted here.
func (s *SQLiteStorage) AppendPrice(ctx context.Context, id string, entry model.PriceEntry, notes string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE catalog_records SET value = ?, notes = ? WHERE id = ?
	`, entry.Value, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update record value: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO price_history (record_id, value, recorded_at)
		VALUES (?, ?, ?)
	`, id, entry.Value, entry.RecordedAt); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return tx.Commit()
}

// DeleteRecord removes a record; its history goes with it (ON DELETE CASCADE).
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
