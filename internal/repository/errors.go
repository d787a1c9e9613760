// Package repository contains the MySQL data access code for listings,
// renovations and photos.  Every repository returns the sentinel errors
// below for conditions that handlers map to HTTP status codes; all other
// failures are wrapped driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrListingNotFound is returned when a listing id does not exist,
	// including when a child row points at a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrRenovationNotFound is returned when a renovation lookup fails.
	ErrRenovationNotFound = errors.New("renovation not found")
	// ErrPhotoNotFound is returned when a photo lookup fails.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrDuplicateAddress is returned when an insert or update would
	// violate the unique index on listings.address.
	ErrDuplicateAddress = errors.New("listing address already exists")
)

// MySQL server error numbers the repositories translate.
const (
	errDupEntry     = 1062
	errNoReferenced = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool  { return mysqlErrNumber(err) == errDupEntry }
func isForeignKey(err error) bool { return mysqlErrNumber(err) == errNoReferenced }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction that is committed when fn returns
// nil and rolled back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// listingExists checks for a listing id, optionally locking the row.
func listingExists(ctx context.Context, q querier, id uint64, lock bool) (bool, error) {
	query := "SELECT 1 FROM listings WHERE id = ?"
	if lock {
		query += " FOR UPDATE"
	}
	var one int
	if err := q.QueryRowContext(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// setClause accumulates "col = ?" fragments for partial updates.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setClause) empty() bool { return len(s.cols) == 0 }
