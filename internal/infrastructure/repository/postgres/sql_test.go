package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows should be not-found")
	}
	if !isNotFound(fmt.Errorf("select player: %w", sql.ErrNoRows)) {
		t.Fatal("wrapped sql.ErrNoRows should be not-found")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatal("arbitrary error should not be not-found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: pqUniqueViolation}
	if !isUniqueViolation(err) {
		t.Fatal("23505 should be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert player: %w", err)) {
		t.Fatal("wrapped 23505 should be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: pqForeignKeyViolation}) {
		t.Fatal("23503 is not a unique violation")
	}
	if isUniqueViolation(fmt.Errorf("boom")) {
		t.Fatal("arbitrary error is not a unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pq.Error{Code: pqForeignKeyViolation}
	if !isForeignKeyViolation(err) {
		t.Fatal("23503 should be a foreign key violation")
	}
	if !isForeignKeyViolation(fmt.Errorf("insert stints: %w", err)) {
		t.Fatal("wrapped 23503 should be a foreign key violation")
	}
	if isForeignKeyViolation(&pq.Error{Code: pqUniqueViolation}) {
		t.Fatal("23505 is not a foreign key violation")
	}
}
