package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpCapturesChainAndCode(t *testing.T) {
	err := fmt.Errorf("update order: %w", Wrap(CodeUpstream, fmt.Errorf("timeout"), "Unable to update order status."))

	d := Dump(err)
	if d.Code != CodeUpstream {
		t.Fatalf("expected upstream code, got %q", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected three links in chain, got %d: %v", len(d.Chain), d.Chain)
	}
}

func TestDumpExtractsPostgresDiagnostics(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_pkey", TableName: "orders", Message: "duplicate key"}
	d := Dump(Wrap(CodeInternal, pgxErr, "insert order"))
	if d.PGCode != "23505" || d.PGConstraint != "orders_pkey" || d.PGTable != "orders" {
		t.Fatalf("unexpected pgx diagnostics %+v", d)
	}

	pqErr := &pq.Error{Code: "23502", Column: "email", Table: "orders", Message: "null value"}
	d = Dump(fmt.Errorf("wrap: %w", pqErr))
	if d.PGCode != "23502" || d.PGColumn != "email" {
		t.Fatalf("unexpected pq diagnostics %+v", d)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}

func TestDumpClassifiesSQLState(t *testing.T) {
	cases := []struct {
		code      string
		class     string
		retryable bool
	}{
		{"23505", "integrity_constraint_violation", false},
		{"40001", "transaction_rollback", true},
		{"08006", "connection_exception", true},
		{"XX000", "", false},
	}
	for _, tc := range cases {
		d := Dump(&pgconn.PgError{Code: tc.code})
		if d.PGClass != tc.class || d.Retryable != tc.retryable {
			t.Errorf("%s: got class=%q retryable=%v", tc.code, d.PGClass, d.Retryable)
		}
	}
}
