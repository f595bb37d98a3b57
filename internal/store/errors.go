package store

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes that mean the database is missing or not accepting work.
var unavailableCodes = map[string]bool{
	"42P01": true, // undefined_table
	"3F000": true, // invalid_schema_name
	"57P01": true, // admin_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.ToUpper(pgErr.Code)
	}
	return ""
}

// IsUniqueViolation reports whether err is a duplicate-key failure on any backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "courses_course_id")
}

// IsUnavailable reports whether err means the store cannot be reached or is not set up.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if unavailableCodes[pgCode(err)] {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		(strings.Contains(msg, "schema") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "connection") && (strings.Contains(msg, "terminated") || strings.Contains(msg, "refused") || strings.Contains(msg, "failed"))) ||
		strings.Contains(msg, "timeout") ||
		(strings.Contains(msg, "connect") && strings.Contains(msg, "failed")) ||
		strings.Contains(msg, "database is closed")
}

// IsSaveFailure reports whether err is a row the store refused to accept.
func IsSaveFailure(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == "22001" || IsUniqueViolation(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "value too long") || strings.Contains(msg, "invalid input syntax")
}
