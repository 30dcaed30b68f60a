package dberrors

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

const pgUniqueViolation = "23505"

// mongoIndexPattern extracts the index name from an E11000 message, e.g. "index: code_1 dup key".
var mongoIndexPattern = regexp.MustCompile(`index: ([A-Za-z0-9_]+)_1\b`)

// PostgresDuplicateField reports whether err is a unique violation on table and, if the
// constraint follows the <table>_<field>_key naming, which field it guards.
func PostgresDuplicateField(err error, table string) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}
	name := pgErr.ConstraintName
	if strings.HasPrefix(name, table+"_") && strings.HasSuffix(name, "_key") {
		return strings.TrimSuffix(strings.TrimPrefix(name, table+"_"), "_key"), true
	}
	return "", true
}

// MongoDuplicateField reports whether err is an E11000 duplicate key error and, if the
// violated index is a single-field <field>_1 index, which field it guards.
func MongoDuplicateField(err error) (string, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	if m := mongoIndexPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", true
}
