package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"dollcase/internal/models"
	"dollcase/internal/validation"
)

// --- Makeup artists ---

func handleListArtists(w http.ResponseWriter, r *http.Request) {
	rows, err := db.Query(`SELECT id, name, COALESCE(contact,''), COALESCE(specialty,''),
		COALESCE(price_range,''), is_favorite, sort_order, COALESCE(notes,''), created_at
		FROM makeup_artists ORDER BY is_favorite DESC, sort_order, id`)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.MakeupArtist{}
	for rows.Next() {
		var a models.MakeupArtist
		var fav int
		rows.Scan(&a.ID, &a.Name, &a.Contact, &a.Specialty, &a.PriceRange, &fav, &a.SortOrder, &a.Notes, &a.CreatedAt)
		a.IsFavorite = fav != 0
		items = append(items, a)
	}
	jsonResp(w, items)
}

func validateArtist(a *models.MakeupArtist) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", a.Name)
	validation.ValidateMaxLength(ve, "name", a.Name, validation.MaxNameLength)
	validation.ValidateMaxLength(ve, "contact", a.Contact, validation.MaxNameLength)
	validation.ValidateMaxLength(ve, "notes", a.Notes, validation.MaxNotesLength)
	return ve
}

func handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var a models.MakeupArtist
	if err := decodeBody(r, &a); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	a.Notes = validation.SanitizeText(a.Notes)
	if ve := validateArtist(&a); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	fav := 0
	if a.IsFavorite {
		fav = 1
	}
	res, err := db.Exec(`INSERT INTO makeup_artists (name, contact, specialty, price_range, is_favorite, sort_order, notes)
		VALUES (?,?,?,?,?,?,?)`,
		a.Name, a.Contact, a.Specialty, a.PriceRange, fav, a.SortOrder, a.Notes)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, "makeup_artist", fmt.Sprint(id), "Created artist: "+a.Name)
	broadcast("makeup_artist", "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

func handleUpdateArtist(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var a models.MakeupArtist
	if err := decodeBody(r, &a); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	a.Notes = validation.SanitizeText(a.Notes)
	if ve := validateArtist(&a); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	fav := 0
	if a.IsFavorite {
		fav = 1
	}
	res, err := db.Exec(`UPDATE makeup_artists SET name=?, contact=?, specialty=?, price_range=?, is_favorite=?, sort_order=?, notes=? WHERE id=?`,
		a.Name, a.Contact, a.Specialty, a.PriceRange, fav, a.SortOrder, a.Notes, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, "makeup_artist", idStr, "Updated artist: "+a.Name)
	broadcast("makeup_artist", "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleDeleteArtist(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	res, err := db.Exec("DELETE FROM makeup_artists WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, "makeup_artist", idStr, "Deleted artist")
	broadcast("makeup_artist", "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// --- Head makeup records (history, current, appointments) ---

// makeupTable selects between the three head-makeup variants. The current
// and appointment tables carry UNIQUE(head_id) so writes can upsert.
type makeupTable struct {
	table     string
	dateCol   string
	wsType    string
	singleton bool
}

var (
	makeupHistory      = makeupTable{"makeup_history", "makeup_date", "makeup_history", false}
	makeupCurrent      = makeupTable{"makeup_current", "makeup_date", "current_makeup", true}
	makeupAppointments = makeupTable{"makeup_appointments", "appointment_date", "makeup_appointment", true}
)

func validateMakeupRecord(m *models.MakeupRecord, t makeupTable) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	if m.HeadID <= 0 {
		ve.Add("head_id", "must be a positive integer")
	}
	validation.ValidatePrice(ve, "fee", m.Fee)
	validation.ValidateDate(ve, t.dateCol, m.MakeupDate)
	validation.ValidateImagePath(ve, "image_path", m.ImagePath)
	validation.ValidateMaxLength(ve, "artist_name", m.ArtistName, validation.MaxNameLength)
	validation.ValidateMaxLength(ve, "notes", m.Notes, validation.MaxNotesLength)
	return ve
}

func scanMakeupRecord(s rowScanner) (models.MakeupRecord, error) {
	var m models.MakeupRecord
	var artistID sql.NullInt64
	var fee sql.NullFloat64
	err := s.Scan(&m.ID, &m.HeadID, &artistID, &m.ArtistName, &fee, &m.MakeupDate, &m.Notes, &m.ImagePath, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	m.ArtistID = ip(artistID)
	m.Fee = fp(fee)
	return m, nil
}

func handleListMakeup(w http.ResponseWriter, r *http.Request, t makeupTable) {
	where := ""
	args := []interface{}{}
	if headStr := r.URL.Query().Get("head_id"); headStr != "" {
		headID := validation.ParseID(headStr)
		if headID == 0 {
			jsonErr(w, "invalid head_id", 400)
			return
		}
		where = " WHERE head_id=?"
		args = append(args, headID)
	}
	query := fmt.Sprintf(`SELECT id, head_id, artist_id, COALESCE(artist_name,''), fee,
		COALESCE(%s,''), COALESCE(notes,''), COALESCE(image_path,''), created_at
		FROM %s%s ORDER BY COALESCE(%s,'') DESC, id DESC`, t.dateCol, t.table, where, t.dateCol)
	rows, err := db.Query(query, args...)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.MakeupRecord{}
	for rows.Next() {
		m, err := scanMakeupRecord(rows)
		if err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		items = append(items, m)
	}
	jsonResp(w, items)
}

func handleCreateMakeup(w http.ResponseWriter, r *http.Request, t makeupTable) {
	var m models.MakeupRecord
	if err := decodeBody(r, &m); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	m.Notes = validation.SanitizeText(m.Notes)
	if ve := validateMakeupRecord(&m, t); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	if t.singleton {
		handleUpsertMakeup(w, r, t, m)
		return
	}
	res, err := db.Exec(fmt.Sprintf(`INSERT INTO %s (head_id, artist_id, artist_name, fee, %s, notes, image_path)
		VALUES (?,?,?,?,?,?,?)`, t.table, t.dateCol),
		m.HeadID, ni(m.ArtistID), m.ArtistName, nf(m.Fee), m.MakeupDate, m.Notes, m.ImagePath)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, t.wsType, fmt.Sprint(id), fmt.Sprintf("Added %s for head %d", t.wsType, m.HeadID))
	broadcast(t.wsType, "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

// handleUpsertMakeup writes the single current-makeup or appointment row for
// a head. The UNIQUE(head_id) constraint plus ON CONFLICT makes this one
// atomic statement, so concurrent writers cannot leave duplicate or lost
// rows the way a delete-then-insert pair could.
func handleUpsertMakeup(w http.ResponseWriter, r *http.Request, t makeupTable, m models.MakeupRecord) {
	_, err := db.Exec(fmt.Sprintf(`INSERT INTO %s (head_id, artist_id, artist_name, fee, %s, notes, image_path)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(head_id) DO UPDATE SET
			artist_id=excluded.artist_id, artist_name=excluded.artist_name, fee=excluded.fee,
			%s=excluded.%s, notes=excluded.notes, image_path=excluded.image_path`,
		t.table, t.dateCol, t.dateCol, t.dateCol),
		m.HeadID, ni(m.ArtistID), m.ArtistName, nf(m.Fee), m.MakeupDate, m.Notes, m.ImagePath)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	var id int64
	db.QueryRow("SELECT id FROM "+t.table+" WHERE head_id=?", m.HeadID).Scan(&id)
	logAudit(getUsername(r), AuditActionUpdate, t.wsType, fmt.Sprint(id), fmt.Sprintf("Set %s for head %d", t.wsType, m.HeadID))
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]int64{"id": id})
}

// handleSetMakeupForHead is the PUT /head/{headID} form of the singleton write.
func handleSetMakeupForHead(w http.ResponseWriter, r *http.Request, t makeupTable, headStr string) {
	headID := validation.ParseID(headStr)
	if headID == 0 {
		jsonErr(w, "invalid head id", 400)
		return
	}
	var m models.MakeupRecord
	if err := decodeBody(r, &m); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	m.HeadID = headID
	m.Notes = validation.SanitizeText(m.Notes)
	if ve := validateMakeupRecord(&m, t); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	handleUpsertMakeup(w, r, t, m)
}

func handleUpdateMakeup(w http.ResponseWriter, r *http.Request, t makeupTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var m models.MakeupRecord
	if err := decodeBody(r, &m); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	m.Notes = validation.SanitizeText(m.Notes)
	if ve := validateMakeupRecord(&m, t); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	res, err := db.Exec(fmt.Sprintf(`UPDATE %s SET head_id=?, artist_id=?, artist_name=?, fee=?, %s=?, notes=?, image_path=? WHERE id=?`,
		t.table, t.dateCol),
		m.HeadID, ni(m.ArtistID), m.ArtistName, nf(m.Fee), m.MakeupDate, m.Notes, m.ImagePath, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, t.wsType, idStr, "Updated "+t.wsType)
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleDeleteMakeup(w http.ResponseWriter, r *http.Request, t makeupTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	res, err := db.Exec("DELETE FROM "+t.table+" WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, t.wsType, idStr, "Deleted "+t.wsType)
	broadcast(t.wsType, "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// --- Body makeup ---

func handleListBodyMakeup(w http.ResponseWriter, r *http.Request) {
	rows, err := db.Query(`SELECT id, body_id, artist_id, COALESCE(artist_name,''), fee,
		COALESCE(makeup_date,''), COALESCE(notes,''), created_at
		FROM body_makeup ORDER BY COALESCE(makeup_date,'') DESC, id DESC`)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.BodyMakeup{}
	for rows.Next() {
		var m models.BodyMakeup
		var artistID sql.NullInt64
		var fee sql.NullFloat64
		rows.Scan(&m.ID, &m.BodyID, &artistID, &m.ArtistName, &fee, &m.MakeupDate, &m.Notes, &m.CreatedAt)
		m.ArtistID = ip(artistID)
		m.Fee = fp(fee)
		items = append(items, m)
	}
	jsonResp(w, items)
}

func handleCreateBodyMakeup(w http.ResponseWriter, r *http.Request) {
	var m models.BodyMakeup
	if err := decodeBody(r, &m); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	m.Notes = validation.SanitizeText(m.Notes)
	ve := &validation.ValidationErrors{}
	if m.BodyID <= 0 {
		ve.Add("body_id", "must be a positive integer")
	}
	validation.ValidatePrice(ve, "fee", m.Fee)
	validation.ValidateDate(ve, "makeup_date", m.MakeupDate)
	validation.ValidateMaxLength(ve, "notes", m.Notes, validation.MaxNotesLength)
	if ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	res, err := db.Exec(`INSERT INTO body_makeup (body_id, artist_id, artist_name, fee, makeup_date, notes)
		VALUES (?,?,?,?,?,?)`,
		m.BodyID, ni(m.ArtistID), m.ArtistName, nf(m.Fee), m.MakeupDate, m.Notes)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, "body_makeup", fmt.Sprint(id), fmt.Sprintf("Added body makeup for body %d", m.BodyID))
	broadcast("body_makeup", "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

func handleDeleteBodyMakeup(w http.ResponseWriter, r *http.Request, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	res, err := db.Exec("DELETE FROM body_makeup WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, "body_makeup", idStr, "Deleted body makeup")
	broadcast("body_makeup", "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}
