package main

import (
	"net/http"
)

// sortableTables whitelists the entities that accept position updates.
var sortableTables = map[string]string{
	"doll-heads":     "doll_heads",
	"doll-bodies":    "doll_bodies",
	"makeup-artists": "makeup_artists",
	"wardrobe":       "wardrobe_items",
	"photos":         "photos",
}

type sortOrderRequest struct {
	SortOrder []struct {
		ID    int `json:"id"`
		Order int `json:"order"`
	} `json:"sortOrder"`
}

// handleSortEntity applies a batch of sort_order updates in one transaction.
func handleSortEntity(w http.ResponseWriter, r *http.Request, entity string) {
	table, ok := sortableTables[entity]
	if !ok {
		jsonErr(w, "unknown entity", 404)
		return
	}
	var req sortOrderRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if len(req.SortOrder) == 0 {
		jsonErr(w, "sortOrder is required", 400)
		return
	}
	for _, item := range req.SortOrder {
		if item.ID <= 0 {
			jsonErr(w, "id must be a positive integer", 400)
			return
		}
	}
	tx, err := db.Begin()
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare("UPDATE " + table + " SET sort_order=? WHERE id=?")
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer stmt.Close()
	for _, item := range req.SortOrder {
		if _, err := stmt.Exec(item.Order, item.ID); err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	broadcast(entity, "sort", len(req.SortOrder))
	jsonResp(w, map[string]string{"status": "ok"})
}
