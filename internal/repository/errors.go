// Package repository defines the MySQL data access layer and the error
// values shared across repositories.  Handlers use these sentinels to pick
// a response status without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent records (e.g. deleting a genre that movies still
// reference).  Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers the repositories translate.
const (
	errDuplicateEntry  = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// isDuplicate reports a unique key violation.
func isDuplicate(err error) bool { return mysqlErrNumber(err) == errDuplicateEntry }

// isForeignKey reports a foreign key violation in either direction.
func isForeignKey(err error) bool {
	n := mysqlErrNumber(err)
	return n == errRowIsReferenced || n == errNoReferencedRow
}
