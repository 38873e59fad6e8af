package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// isUniqueViolation reports a unique constraint failure from postgres or sqlite.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// isForeignKeyViolation reports a foreign key failure from postgres or sqlite.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
	}
	return false
}

// storableID reports whether id fits the INTEGER/SERIAL key columns. Anything else cannot
// name a stored row, so callers treat it as a miss instead of sending it to the database.
func storableID(id int) bool {
	return id > 0 && int64(id) <= math.MaxInt32
}

// maxInClauseIDs keeps IN lists well below the bind variable limits of sqlite (32766) and
// postgres (65535).
const maxInClauseIDs = 500

// idChunks splits ids into de-duplicated batches of at most size ids. Ids that cannot
// name a row are dropped.
func idChunks(ids []int, size int) [][]int {
	if size <= 0 {
		size = maxInClauseIDs
	}
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || !storableID(id) {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	chunks := make([][]int, 0, (len(unique)+size-1)/size)
	for len(unique) > 0 {
		n := size
		if len(unique) < n {
			n = len(unique)
		}
		chunks = append(chunks, unique[:n:n])
		unique = unique[n:]
	}
	return chunks
}

// inClause builds "$n, $n+1, ..." for ids, numbering from start.
func inClause(start int, ids []int) (string, []interface{}) {
	marks := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		marks[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
