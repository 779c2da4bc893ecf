package main

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestHandleListDollParts_Empty(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	req := httptest.NewRequest("GET", "/api/doll-heads", nil)
	w := httptest.NewRecorder()
	handleListDollParts(w, req, dollHeads)
	assertStatus(t, w, 200)

	var resp struct {
		Data []DollPart `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data == nil {
		t.Error("Expected empty array, got null")
	}
	if len(resp.Data) != 0 {
		t.Errorf("Expected empty list, got %d items", len(resp.Data))
	}
}

func TestHandleCreateDollPart_Roundtrip(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	body := map[string]interface{}{
		"name":             "Luna",
		"maker":            "Fairyland",
		"size_category":    "MSD",
		"ownership_status": "preorder",
		"payment_status":   "deposit_only",
		"total_price":      800,
		"deposit":          300,
		"final_payment":    500,
	}
	req := authedJSONRequest("POST", "/api/doll-heads", body, "")
	w := httptest.NewRecorder()
	handleCreateDollPart(w, req, dollHeads)
	assertStatus(t, w, 200)

	var created struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode create response: %v", err)
	}
	id := created.Data["id"]
	if id == 0 {
		t.Fatal("Expected non-zero id")
	}

	req = httptest.NewRequest("GET", "/api/doll-heads/1", nil)
	w = httptest.NewRecorder()
	handleGetDollPart(w, req, dollHeads, "1")
	assertStatus(t, w, 200)

	var got struct {
		Data DollPart `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode get response: %v", err)
	}
	if got.Data.Name != "Luna" || got.Data.OwnershipStatus != "preorder" {
		t.Errorf("Unexpected part: %+v", got.Data)
	}
	if got.Data.TotalPrice == nil || *got.Data.TotalPrice != 800 {
		t.Errorf("Expected total_price 800, got %v", got.Data.TotalPrice)
	}
	if got.Data.OriginalPrice != nil {
		t.Errorf("Expected original_price to stay null, got %v", *got.Data.OriginalPrice)
	}
}

func TestHandleCreateDollPart_Defaults(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	req := authedJSONRequest("POST", "/api/doll-bodies", map[string]string{"name": "Body A"}, "")
	w := httptest.NewRecorder()
	handleCreateDollPart(w, req, dollBodies)
	assertStatus(t, w, 200)

	var ownership, payment string
	if err := db.QueryRow("SELECT ownership_status, payment_status FROM doll_bodies WHERE name='Body A'").
		Scan(&ownership, &payment); err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if ownership != "owned" || payment != "full_paid" {
		t.Errorf("Expected owned/full_paid defaults, got %s/%s", ownership, payment)
	}
}

func TestHandleCreateDollPart_Validation(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	cases := []map[string]interface{}{
		{},
		{"name": ""},
		{"name": "X", "ownership_status": "borrowed"},
		{"name": "X", "total_price": -5},
		{"name": "X", "release_date": "2024-01-15"},
		{"name": "X", "image_path": "../secret.jpg"},
	}
	for i, body := range cases {
		req := authedJSONRequest("POST", "/api/doll-heads", body, "")
		w := httptest.NewRecorder()
		handleCreateDollPart(w, req, dollHeads)
		if w.Code != 400 {
			t.Errorf("case %d: expected 400, got %d. Body: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestHandleUpdateDollPart_NotFound(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	req := authedJSONRequest("PUT", "/api/doll-heads/99", map[string]string{"name": "Ghost"}, "")
	w := httptest.NewRecorder()
	handleUpdateDollPart(w, req, dollHeads, "99")
	assertStatus(t, w, 404)
}

func TestHandleDeleteDollPart(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	id := insertTestPart(t, db, "doll_heads", "ToDelete", "owned", nil, nil, nil, nil, nil, "")
	req := httptest.NewRequest("DELETE", "/api/doll-heads/1", nil)
	w := httptest.NewRecorder()
	handleDeleteDollPart(w, req, dollHeads, "1")
	assertStatus(t, w, 200)

	var count int
	db.QueryRow("SELECT COUNT(*) FROM doll_heads WHERE id=?", id).Scan(&count)
	if count != 0 {
		t.Error("Row still present after delete")
	}

	w = httptest.NewRecorder()
	handleDeleteDollPart(w, req, dollHeads, "1")
	assertStatus(t, w, 404)
}

func TestHandleDollPartPayment(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	db.Exec("INSERT INTO doll_heads (name, ownership_status, payment_status) VALUES ('Pre', 'preorder', 'deposit_only')")
	req := httptest.NewRequest("PUT", "/api/doll-heads/1/payment", nil)
	w := httptest.NewRecorder()
	handleDollPartPayment(w, req, dollHeads, "1")
	assertStatus(t, w, 200)

	var payment string
	db.QueryRow("SELECT payment_status FROM doll_heads WHERE id=1").Scan(&payment)
	if payment != "full_paid" {
		t.Errorf("Expected full_paid, got %s", payment)
	}
}

func TestHandleDollPartArrival(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	db.Exec("INSERT INTO doll_heads (name, ownership_status) VALUES ('Incoming', 'preorder')")
	req := authedJSONRequest("PUT", "/api/doll-heads/1/arrival", map[string]string{"received_date": "2024-03"}, "")
	w := httptest.NewRecorder()
	handleDollPartArrival(w, req, dollHeads, "1")
	assertStatus(t, w, 200)

	var ownership, received string
	db.QueryRow("SELECT ownership_status, received_date FROM doll_heads WHERE id=1").Scan(&ownership, &received)
	if ownership != "owned" || received != "2024-03" {
		t.Errorf("Expected owned/2024-03, got %s/%s", ownership, received)
	}

	// Bad month format is rejected
	req = authedJSONRequest("PUT", "/api/doll-heads/1/arrival", map[string]string{"received_date": "03/2024"}, "")
	w = httptest.NewRecorder()
	handleDollPartArrival(w, req, dollHeads, "1")
	assertStatus(t, w, 400)
}

func TestHandleGetDollPart_InvalidID(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	for _, bad := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest("GET", "/api/doll-heads/"+bad, nil)
		w := httptest.NewRecorder()
		handleGetDollPart(w, req, dollHeads, bad)
		if w.Code != 400 {
			t.Errorf("id %q: expected 400, got %d", bad, w.Code)
		}
	}
}
