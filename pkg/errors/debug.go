package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-only view of an error: the wrap chain plus any Postgres diagnostics.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGClass      string `json:"pg_class,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
	Retryable    bool   `json:"retryable,omitempty"`
}

// SQLSTATE classes worth naming in logs.
var pgClasses = map[string]string{
	"08": "connection_exception",
	"22": "data_exception",
	"23": "integrity_constraint_violation",
	"40": "transaction_rollback",
	"42": "syntax_or_access_rule",
	"53": "insufficient_resources",
	"57": "operator_intervention",
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
	default:
		return d
	}

	d.PGClass, d.Retryable = classifySQLState(d.PGCode)
	return d
}

// classifySQLState names the SQLSTATE class and flags codes a client may safely retry.
func classifySQLState(code string) (string, bool) {
	if len(code) < 2 {
		return "", false
	}
	class := pgClasses[code[:2]]
	switch {
	case code == "40001", code == "40P01":
		return class, true
	case strings.HasPrefix(code, "08"), code == "57P01":
		return class, true
	}
	return class, false
}
