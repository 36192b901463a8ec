package db

import (
	"github.com/go-sql-driver/mysql"
)

var (
	ErrDuplicateEntryCode = 1062
)

func MysqlErrCode(err error) int {
	mysqlErr, ok := err.(*mysql.MySQLError)
	if !ok {
		return 0
	}
	return int(mysqlErr.Number)
}

// IsDuplicateEntryErr reports whether err is a mysql duplicate-key violation.
func IsDuplicateEntryErr(err error) bool {
	return MysqlErrCode(err) == ErrDuplicateEntryCode
}
