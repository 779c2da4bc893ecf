package main

import (
	"fmt"
	"net/http"

	"dollcase/internal/models"
	"dollcase/internal/validation"
)

func validatePhoto(p *models.Photo) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "entity_type", p.EntityType, validation.ValidPhotoEntityTypes)
	if p.EntityType == "" {
		ve.Add("entity_type", "is required")
	}
	if p.EntityID <= 0 {
		ve.Add("entity_id", "must be a positive integer")
	}
	validation.ValidateEnum(ve, "photo_type", p.PhotoType, validation.ValidPhotoTypes)
	validation.RequireField(ve, "image_path", p.ImagePath)
	validation.ValidateImagePath(ve, "image_path", p.ImagePath)
	validation.ValidateMaxLength(ve, "image_path", p.ImagePath, validation.MaxPathLength)
	validation.ValidateMaxLength(ve, "caption", p.Caption, validation.MaxNameLength)
	return ve
}

func handleListPhotos(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, entity_type, entity_id, photo_type, image_path, is_cover,
		COALESCE(caption,''), sort_order, created_at FROM photos`
	args := []interface{}{}
	entityType := r.URL.Query().Get("entity_type")
	entityID := r.URL.Query().Get("entity_id")
	if entityType != "" && entityID != "" {
		id := validation.ParseID(entityID)
		if id == 0 {
			jsonErr(w, "invalid entity_id", 400)
			return
		}
		query += " WHERE entity_type=? AND entity_id=?"
		args = append(args, entityType, id)
	}
	query += " ORDER BY is_cover DESC, sort_order, id"
	rows, err := db.Query(query, args...)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.Photo{}
	for rows.Next() {
		var p models.Photo
		var cover int
		rows.Scan(&p.ID, &p.EntityType, &p.EntityID, &p.PhotoType, &p.ImagePath, &cover, &p.Caption, &p.SortOrder, &p.CreatedAt)
		p.IsCover = cover != 0
		items = append(items, p)
	}
	jsonResp(w, items)
}

func handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	var p models.Photo
	if err := decodeBody(r, &p); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if p.PhotoType == "" {
		p.PhotoType = "custom"
	}
	if ve := validatePhoto(&p); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	cover := 0
	if p.IsCover {
		cover = 1
	}
	tx, err := db.Begin()
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer tx.Rollback()
	if p.IsCover {
		// A new cover displaces any existing one for the same entity.
		if _, err := tx.Exec("UPDATE photos SET is_cover=0 WHERE entity_type=? AND entity_id=?", p.EntityType, p.EntityID); err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
	}
	res, err := tx.Exec(`INSERT INTO photos (entity_type, entity_id, photo_type, image_path, is_cover, caption, sort_order)
		VALUES (?,?,?,?,?,?,?)`,
		p.EntityType, p.EntityID, p.PhotoType, p.ImagePath, cover, p.Caption, p.SortOrder)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if err := tx.Commit(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, "photo", fmt.Sprint(id), fmt.Sprintf("Added %s photo for %s %d", p.PhotoType, p.EntityType, p.EntityID))
	broadcast("photo", "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

func handleUpdatePhoto(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var p models.Photo
	if err := decodeBody(r, &p); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if p.PhotoType == "" {
		p.PhotoType = "custom"
	}
	if ve := validatePhoto(&p); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	cover := 0
	if p.IsCover {
		cover = 1
	}
	tx, err := db.Begin()
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer tx.Rollback()
	if p.IsCover {
		if _, err := tx.Exec("UPDATE photos SET is_cover=0 WHERE entity_type=? AND entity_id=? AND id<>?", p.EntityType, p.EntityID, id); err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
	}
	res, err := tx.Exec(`UPDATE photos SET entity_type=?, entity_id=?, photo_type=?, image_path=?, is_cover=?, caption=?, sort_order=? WHERE id=?`,
		p.EntityType, p.EntityID, p.PhotoType, p.ImagePath, cover, p.Caption, p.SortOrder, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	if err := tx.Commit(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	broadcast("photo", "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// handleSetCoverPhoto designates one photo as the cover for its entity,
// clearing is_cover on all siblings in the same transaction.
func handleSetCoverPhoto(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	tx, err := db.Begin()
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer tx.Rollback()
	var entityType string
	var entityID int
	if err := tx.QueryRow("SELECT entity_type, entity_id FROM photos WHERE id=?", id).Scan(&entityType, &entityID); err != nil {
		jsonErr(w, "not found", 404)
		return
	}
	if _, err := tx.Exec("UPDATE photos SET is_cover=0 WHERE entity_type=? AND entity_id=?", entityType, entityID); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if _, err := tx.Exec("UPDATE photos SET is_cover=1 WHERE id=?", id); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if err := tx.Commit(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, "photo", idStr, fmt.Sprintf("Set cover photo for %s %d", entityType, entityID))
	broadcast("photo", "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleDeletePhoto(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	res, err := db.Exec("DELETE FROM photos WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, "photo", idStr, "Deleted photo")
	broadcast("photo", "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}
