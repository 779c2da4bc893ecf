package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"dollcase/internal/models"
	"dollcase/internal/validation"
)

func validateWardrobeItem(it *models.WardrobeItem) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", it.Name)
	validation.ValidateMaxLength(ve, "name", it.Name, validation.MaxNameLength)
	validation.ValidateEnum(ve, "category", it.Category, validation.ValidWardrobeCategories)
	validation.ValidateEnum(ve, "ownership_status", it.OwnershipStatus, validation.ValidWardrobeOwnership)
	validation.ValidatePrice(ve, "total_price", it.TotalPrice)
	validation.ValidatePrice(ve, "deposit", it.Deposit)
	validation.ValidatePrice(ve, "final_payment", it.FinalPayment)
	validation.ValidateImagePath(ve, "image_path", it.ImagePath)
	validation.ValidateMaxLength(ve, "notes", it.Notes, validation.MaxNotesLength)
	return ve
}

func scanWardrobeItem(s rowScanner) (models.WardrobeItem, error) {
	var it models.WardrobeItem
	var total, deposit, final sql.NullFloat64
	var sizes string
	err := s.Scan(&it.ID, &it.Name, &it.Category, &it.OwnershipStatus, &total, &deposit, &final,
		&sizes, &it.ImagePath, &it.SortOrder, &it.Notes, &it.CreatedAt)
	if err != nil {
		return it, err
	}
	it.TotalPrice = fp(total)
	it.Deposit = fp(deposit)
	it.FinalPayment = fp(final)
	it.Sizes = []string{}
	json.Unmarshal([]byte(sizes), &it.Sizes)
	return it, nil
}

const wardrobeCols = `id, name, category, ownership_status, total_price, deposit, final_payment,
	COALESCE(sizes,'[]'), COALESCE(image_path,''), sort_order, COALESCE(notes,''), created_at`

func handleListWardrobe(w http.ResponseWriter, r *http.Request) {
	query := "SELECT " + wardrobeCols + " FROM wardrobe_items"
	args := []interface{}{}
	if cat := r.URL.Query().Get("category"); cat != "" {
		query += " WHERE category=?"
		args = append(args, cat)
	}
	query += " ORDER BY sort_order, id"
	rows, err := db.Query(query, args...)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.WardrobeItem{}
	for rows.Next() {
		it, err := scanWardrobeItem(rows)
		if err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		items = append(items, it)
	}
	jsonResp(w, items)
}

func handleGetWardrobe(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	row := db.QueryRow("SELECT "+wardrobeCols+" FROM wardrobe_items WHERE id=?", id)
	it, err := scanWardrobeItem(row)
	if err != nil {
		jsonErr(w, "not found", 404)
		return
	}
	jsonResp(w, it)
}

func handleCreateWardrobe(w http.ResponseWriter, r *http.Request) {
	var it models.WardrobeItem
	if err := decodeBody(r, &it); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if it.Category == "" {
		it.Category = "other"
	}
	if it.OwnershipStatus == "" {
		it.OwnershipStatus = "owned"
	}
	it.Notes = validation.SanitizeText(it.Notes)
	if ve := validateWardrobeItem(&it); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	sizes, _ := json.Marshal(it.Sizes)
	res, err := db.Exec(`INSERT INTO wardrobe_items (name, category, ownership_status, total_price, deposit, final_payment, sizes, image_path, sort_order, notes)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		it.Name, it.Category, it.OwnershipStatus, nf(it.TotalPrice), nf(it.Deposit), nf(it.FinalPayment),
		string(sizes), it.ImagePath, it.SortOrder, it.Notes)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, "wardrobe", fmt.Sprint(id), "Created wardrobe item: "+it.Name)
	broadcast("wardrobe", "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

func handleUpdateWardrobe(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var it models.WardrobeItem
	if err := decodeBody(r, &it); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if it.Category == "" {
		it.Category = "other"
	}
	if it.OwnershipStatus == "" {
		it.OwnershipStatus = "owned"
	}
	it.Notes = validation.SanitizeText(it.Notes)
	if ve := validateWardrobeItem(&it); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	sizes, _ := json.Marshal(it.Sizes)
	res, err := db.Exec(`UPDATE wardrobe_items SET name=?, category=?, ownership_status=?, total_price=?, deposit=?, final_payment=?, sizes=?, image_path=?, sort_order=?, notes=? WHERE id=?`,
		it.Name, it.Category, it.OwnershipStatus, nf(it.TotalPrice), nf(it.Deposit), nf(it.FinalPayment),
		string(sizes), it.ImagePath, it.SortOrder, it.Notes, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, "wardrobe", idStr, "Updated wardrobe item: "+it.Name)
	broadcast("wardrobe", "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleDeleteWardrobe(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	res, err := db.Exec("DELETE FROM wardrobe_items WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, "wardrobe", idStr, "Deleted wardrobe item")
	broadcast("wardrobe", "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}
