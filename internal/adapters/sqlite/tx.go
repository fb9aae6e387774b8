package sqlite

import (
	"database/sql"

	"rozadaar/internal/ports"
)

// recordTx implements ports.RecordTx
type recordTx struct {
	tx  *sql.Tx
	now int64
}

// Ensure recordTx implements RecordTx
var _ ports.RecordTx = (*recordTx)(nil)

// IDs returns the identifiers stored in a collection
func (t *recordTx) IDs(collection string) ([]string, error) {
	rows, err := t.tx.Query(`SELECT id FROM records WHERE collection = ? ORDER BY position, id`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert inserts or replaces a record
func (t *recordTx) Upsert(collection string, position int, rec ports.Record) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO records (collection, id, position, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, collection, rec.ID, position, string(rec.Body), t.now)
	return err
}

// Delete removes a record by identifier
func (t *recordTx) Delete(collection, id string) error {
	_, err := t.tx.Exec(`DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	return err
}

// Commit commits the transaction
func (t *recordTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *recordTx) Rollback() error {
	return t.tx.Rollback()
}
