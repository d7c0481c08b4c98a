package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QuestionTx implements Tx over a database/sql transaction using '?'
// placeholders and LastInsertId for generated-key capture. It serves both the
// mysql and sqlite backends; postgres has its own implementation because it
// needs $n placeholders and RETURNING.
type QuestionTx struct {
	tx *sql.Tx
}

// NewQuestionTx wraps tx.
func NewQuestionTx(tx *sql.Tx) *QuestionTx { return &QuestionTx{tx: tx} }

var _ Tx = (*QuestionTx)(nil)

// InsertReturningID inserts one row and returns the driver's LastInsertId.
// idColumn is unused here; '?'-placeholder backends report the generated key
// through the driver, not through a RETURNING clause.
func (t *QuestionTx) InsertReturningID(ctx context.Context, table string, columns []string, idColumn string, row []any) (int64, error) {
	if len(row) != len(columns) {
		return 0, fmt.Errorf("insert %s: row length %d != columns length %d", table, len(row), len(columns))
	}
	res, err := t.tx.ExecContext(ctx, insertSQL(table, columns), row...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: last insert id: %w", table, err)
	}
	return id, nil
}

// CopyFrom inserts rows through a prepared statement. database/sql has no
// bulk-load primitive, but a prepared INSERT inside the transaction keeps
// performance acceptable for batch volumes.
func (t *QuestionTx) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := t.tx.PrepareContext(ctx, insertSQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return inserted, fmt.Errorf("insert %s: row length %d != columns length %d", table, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return inserted, fmt.Errorf("insert %s: %w", table, err)
		}
		inserted++
	}
	return inserted, nil
}

// Commit commits the transaction.
func (t *QuestionTx) Commit(ctx context.Context) error { return t.tx.Commit() }

// Rollback rolls the transaction back.
func (t *QuestionTx) Rollback(ctx context.Context) error { return t.tx.Rollback() }

func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
}
