package main

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunMigrations_CreatesAllTables(t *testing.T) {
	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	defer testDB.Close()
	testDB.SetMaxOpenConns(1)

	if err := runMigrations(testDB); err != nil {
		t.Fatalf("runMigrations failed: %v", err)
	}

	tables := []string{
		"doll_heads", "doll_bodies",
		"makeup_artists", "makeup_history", "makeup_current", "makeup_appointments", "body_makeup",
		"wardrobe_items", "photos",
		"users", "sessions", "audit_log", "schema_migrations",
	}
	for _, table := range tables {
		var name string
		err := testDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s missing after migration: %v", table, err)
		}
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	defer testDB.Close()
	testDB.SetMaxOpenConns(1)

	if err := runMigrations(testDB); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := runMigrations(testDB); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	var count int
	testDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if count != len(migrations) {
		t.Errorf("Expected %d recorded migrations, got %d", len(migrations), count)
	}
}

func TestRunMigrations_SingletonConstraint(t *testing.T) {
	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	defer testDB.Close()
	testDB.SetMaxOpenConns(1)

	if err := runMigrations(testDB); err != nil {
		t.Fatalf("runMigrations failed: %v", err)
	}

	// Current makeup and appointments enforce one row per head; history does not
	if _, err := testDB.Exec("INSERT INTO makeup_current (head_id) VALUES (1)"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := testDB.Exec("INSERT INTO makeup_current (head_id) VALUES (1)"); err == nil {
		t.Error("duplicate head_id in makeup_current was allowed")
	}
	if _, err := testDB.Exec("INSERT INTO makeup_history (head_id) VALUES (1)"); err != nil {
		t.Fatalf("history insert failed: %v", err)
	}
	if _, err := testDB.Exec("INSERT INTO makeup_history (head_id) VALUES (1)"); err != nil {
		t.Errorf("second history row rejected: %v", err)
	}
}

func TestDollPartCheckConstraints(t *testing.T) {
	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	defer testDB.Close()
	testDB.SetMaxOpenConns(1)

	if err := runMigrations(testDB); err != nil {
		t.Fatalf("runMigrations failed: %v", err)
	}

	if _, err := testDB.Exec("INSERT INTO doll_heads (name, actual_price) VALUES ('Bad', -10)"); err == nil {
		t.Error("negative price was allowed")
	}
	if _, err := testDB.Exec("INSERT INTO doll_heads (name, ownership_status) VALUES ('Bad', 'borrowed')"); err == nil {
		t.Error("invalid ownership_status was allowed")
	}
}
