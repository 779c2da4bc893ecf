package main

import (
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestHandleCreateWardrobe_Roundtrip(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	body := map[string]interface{}{
		"name":        "Velvet Dress",
		"category":    "dress",
		"total_price": 45.0,
		"sizes":       []string{"MSD", "SD"},
	}
	req := authedJSONRequest("POST", "/api/wardrobe", body, "")
	w := httptest.NewRecorder()
	handleCreateWardrobe(w, req)
	assertStatus(t, w, 200)

	req = httptest.NewRequest("GET", "/api/wardrobe/1", nil)
	w = httptest.NewRecorder()
	handleGetWardrobe(w, req, "1")
	assertStatus(t, w, 200)

	var resp struct {
		Data WardrobeItem `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	it := resp.Data
	if it.Name != "Velvet Dress" || it.Category != "dress" {
		t.Errorf("Unexpected item: %+v", it)
	}
	if it.OwnershipStatus != "owned" {
		t.Errorf("Expected owned default, got %s", it.OwnershipStatus)
	}
	if !reflect.DeepEqual(it.Sizes, []string{"MSD", "SD"}) {
		t.Errorf("Sizes did not survive the round trip: %v", it.Sizes)
	}
}

func TestHandleCreateWardrobe_DefaultCategory(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	req := authedJSONRequest("POST", "/api/wardrobe", map[string]string{"name": "Mystery Box"}, "")
	w := httptest.NewRecorder()
	handleCreateWardrobe(w, req)
	assertStatus(t, w, 200)

	var category string
	db.QueryRow("SELECT category FROM wardrobe_items WHERE name='Mystery Box'").Scan(&category)
	if category != "other" {
		t.Errorf("Expected category other, got %s", category)
	}
}

func TestHandleCreateWardrobe_Validation(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	cases := []map[string]interface{}{
		{"name": ""},
		{"name": "X", "category": "hat-rack"},
		{"name": "X", "ownership_status": "wishlist"},
		{"name": "X", "deposit": -1},
	}
	for i, body := range cases {
		req := authedJSONRequest("POST", "/api/wardrobe", body, "")
		w := httptest.NewRecorder()
		handleCreateWardrobe(w, req)
		if w.Code != 400 {
			t.Errorf("case %d: expected 400, got %d. Body: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestHandleListWardrobe_CategoryFilter(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	db.Exec("INSERT INTO wardrobe_items (name, category) VALUES ('Shoes A', 'shoes')")
	db.Exec("INSERT INTO wardrobe_items (name, category) VALUES ('Wig A', 'wig')")

	req := httptest.NewRequest("GET", "/api/wardrobe?category=wig", nil)
	w := httptest.NewRecorder()
	handleListWardrobe(w, req)
	assertStatus(t, w, 200)

	var resp struct {
		Data []WardrobeItem `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Wig A" {
		t.Errorf("Filter failed: %+v", resp.Data)
	}
}

func TestHandleUpdateWardrobe_NotFound(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	req := authedJSONRequest("PUT", "/api/wardrobe/42", map[string]string{"name": "Ghost"}, "")
	w := httptest.NewRecorder()
	handleUpdateWardrobe(w, req, "42")
	assertStatus(t, w, 404)
}

func TestHandleDeleteWardrobe(t *testing.T) {
	oldDB := db
	db = setupTestDB(t)
	defer func() { db.Close(); db = oldDB }()

	db.Exec("INSERT INTO wardrobe_items (name) VALUES ('Old Dress')")
	req := httptest.NewRequest("DELETE", "/api/wardrobe/1", nil)
	w := httptest.NewRecorder()
	handleDeleteWardrobe(w, req, "1")
	assertStatus(t, w, 200)

	w = httptest.NewRecorder()
	handleDeleteWardrobe(w, req, "1")
	assertStatus(t, w, 404)
}
