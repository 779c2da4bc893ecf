package main

import (
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleExportDolls_CSV(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	insertTestPart(t, db, "doll_heads", "Luna", "owned", nil, fptr(500), nil, nil, nil, "")
	insertTestPart(t, db, "doll_bodies", "Base Body", "preorder", nil, nil, fptr(800), fptr(300), fptr(500), "")

	req := httptest.NewRequest("GET", "/api/export/dolls", nil)
	w := httptest.NewRecorder()
	handleExportDolls(w, req)
	assertStatus(t, w, 200)

	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %s, want text/csv", ct)
	}
	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[1][1] != "Luna" || records[1][0] != "doll head" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	if records[2][10] != "800.00" {
		t.Errorf("Expected total price 800.00, got %q", records[2][10])
	}
}

func TestHandleExportDolls_Excel(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	insertTestPart(t, db, "doll_heads", "Luna", "owned", nil, nil, nil, nil, nil, "")

	req := httptest.NewRequest("GET", "/api/export/dolls?format=xlsx", nil)
	w := httptest.NewRecorder()
	handleExportDolls(w, req)
	assertStatus(t, w, 200)

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %s, want xlsx mime type", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("Expected non-empty xlsx body")
	}
}

func TestHandleExportWardrobe_CSV(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	db.Exec(`INSERT INTO wardrobe_items (name, category, ownership_status, total_price, sizes)
		VALUES ('Dress', 'dress', 'owned', 45, '["MSD","SD"]')`)

	req := httptest.NewRequest("GET", "/api/export/wardrobe", nil)
	w := httptest.NewRecorder()
	handleExportWardrobe(w, req)
	assertStatus(t, w, 200)

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d records", len(records))
	}
	if records[1][6] != "MSD, SD" {
		t.Errorf("Expected joined sizes, got %q", records[1][6])
	}
}
