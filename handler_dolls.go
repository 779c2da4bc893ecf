package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"dollcase/internal/models"
	"dollcase/internal/validation"
)

// dollTable selects between the two doll part tables, which share a schema.
type dollTable struct {
	table  string
	wsType string
	label  string
}

var (
	dollHeads  = dollTable{"doll_heads", "doll_head", "doll head"}
	dollBodies = dollTable{"doll_bodies", "doll_body", "doll body"}
)

const dollPartCols = `id, name, COALESCE(maker,''), COALESCE(mold,''), COALESCE(skin_tone,''),
	COALESCE(size_category,''), original_price, actual_price, total_price, deposit, final_payment,
	ownership_status, payment_status, COALESCE(release_date,''), COALESCE(received_date,''),
	COALESCE(image_path,''), COALESCE(image_position,''), sort_order, COALESCE(notes,''),
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDollPart(s rowScanner) (models.DollPart, error) {
	var d models.DollPart
	var orig, actual, total, deposit, final sql.NullFloat64
	err := s.Scan(&d.ID, &d.Name, &d.Maker, &d.Mold, &d.SkinTone, &d.SizeCategory,
		&orig, &actual, &total, &deposit, &final,
		&d.OwnershipStatus, &d.PaymentStatus, &d.ReleaseDate, &d.ReceivedDate,
		&d.ImagePath, &d.ImagePosition, &d.SortOrder, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return d, err
	}
	d.OriginalPrice = fp(orig)
	d.ActualPrice = fp(actual)
	d.TotalPrice = fp(total)
	d.Deposit = fp(deposit)
	d.FinalPayment = fp(final)
	return d, nil
}

func validateDollPart(d *models.DollPart) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", d.Name)
	validation.ValidateMaxLength(ve, "name", d.Name, validation.MaxNameLength)
	validation.ValidateEnum(ve, "ownership_status", d.OwnershipStatus, validation.ValidOwnershipStatuses)
	validation.ValidateEnum(ve, "payment_status", d.PaymentStatus, validation.ValidPaymentStatuses)
	validation.ValidatePrice(ve, "original_price", d.OriginalPrice)
	validation.ValidatePrice(ve, "actual_price", d.ActualPrice)
	validation.ValidatePrice(ve, "total_price", d.TotalPrice)
	validation.ValidatePrice(ve, "deposit", d.Deposit)
	validation.ValidatePrice(ve, "final_payment", d.FinalPayment)
	validation.ValidateMonth(ve, "release_date", d.ReleaseDate)
	validation.ValidateMonth(ve, "received_date", d.ReceivedDate)
	validation.ValidateImagePath(ve, "image_path", d.ImagePath)
	validation.ValidateMaxLength(ve, "notes", d.Notes, validation.MaxNotesLength)
	return ve
}

// applyDollPartDefaults fills optional enums the way the database would.
func applyDollPartDefaults(d *models.DollPart) {
	if d.OwnershipStatus == "" {
		d.OwnershipStatus = "owned"
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = "full_paid"
	}
	d.Notes = validation.SanitizeText(d.Notes)
}

func handleListDollParts(w http.ResponseWriter, r *http.Request, t dollTable) {
	rows, err := db.Query("SELECT " + dollPartCols + " FROM " + t.table + " ORDER BY sort_order, id")
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	items := []models.DollPart{}
	for rows.Next() {
		d, err := scanDollPart(rows)
		if err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		items = append(items, d)
	}
	jsonResp(w, items)
}

func handleGetDollPart(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	row := db.QueryRow("SELECT "+dollPartCols+" FROM "+t.table+" WHERE id=?", id)
	d, err := scanDollPart(row)
	if err != nil {
		jsonErr(w, "not found", 404)
		return
	}
	jsonResp(w, d)
}

func handleCreateDollPart(w http.ResponseWriter, r *http.Request, t dollTable) {
	var d models.DollPart
	if err := decodeBody(r, &d); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	applyDollPartDefaults(&d)
	if ve := validateDollPart(&d); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	res, err := db.Exec(`INSERT INTO `+t.table+` (name, maker, mold, skin_tone, size_category,
		original_price, actual_price, total_price, deposit, final_payment,
		ownership_status, payment_status, release_date, received_date, image_path, image_position, sort_order, notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.Name, d.Maker, d.Mold, d.SkinTone, d.SizeCategory,
		nf(d.OriginalPrice), nf(d.ActualPrice), nf(d.TotalPrice), nf(d.Deposit), nf(d.FinalPayment),
		d.OwnershipStatus, d.PaymentStatus, d.ReleaseDate, d.ReceivedDate, d.ImagePath, d.ImagePosition, d.SortOrder, d.Notes)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	logAudit(getUsername(r), AuditActionCreate, t.wsType, fmt.Sprint(id), "Created "+t.label+": "+d.Name)
	broadcast(t.wsType, "create", id)
	jsonResp(w, map[string]int64{"id": id})
}

func handleUpdateDollPart(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var d models.DollPart
	if err := decodeBody(r, &d); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	applyDollPartDefaults(&d)
	if ve := validateDollPart(&d); ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	res, err := db.Exec(`UPDATE `+t.table+` SET name=?, maker=?, mold=?, skin_tone=?, size_category=?,
		original_price=?, actual_price=?, total_price=?, deposit=?, final_payment=?,
		ownership_status=?, payment_status=?, release_date=?, received_date=?, image_path=?, image_position=?, sort_order=?, notes=?, updated_at=?
		WHERE id=?`,
		d.Name, d.Maker, d.Mold, d.SkinTone, d.SizeCategory,
		nf(d.OriginalPrice), nf(d.ActualPrice), nf(d.TotalPrice), nf(d.Deposit), nf(d.FinalPayment),
		d.OwnershipStatus, d.PaymentStatus, d.ReleaseDate, d.ReceivedDate, d.ImagePath, d.ImagePosition, d.SortOrder, d.Notes, now, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, t.wsType, idStr, "Updated "+t.label+": "+d.Name)
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleDeleteDollPart(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	// Makeup records referencing this head are left in place; orphans are
	// tolerated rather than silently cascaded.
	res, err := db.Exec("DELETE FROM "+t.table+" WHERE id=?", id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionDelete, t.wsType, idStr, "Deleted "+t.label)
	broadcast(t.wsType, "delete", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// handleDollPartPayment marks a deposit-only part as fully paid.
func handleDollPartPayment(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	res, err := db.Exec("UPDATE "+t.table+" SET payment_status='full_paid', updated_at=? WHERE id=?", now, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, t.wsType, idStr, "Marked "+t.label+" fully paid")
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// handleDollPartArrival confirms a preorder arrived: ownership flips to owned
// and received_date is stamped (current month unless the caller supplies one).
func handleDollPartArrival(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var body struct {
		ReceivedDate string `json:"received_date"`
	}
	decodeBody(r, &body) // body is optional
	if body.ReceivedDate == "" {
		body.ReceivedDate = time.Now().Format("2006-01")
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateMonth(ve, "received_date", body.ReceivedDate)
	if ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	res, err := db.Exec("UPDATE "+t.table+" SET ownership_status='owned', received_date=?, updated_at=? WHERE id=?",
		body.ReceivedDate, now, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	logAudit(getUsername(r), AuditActionUpdate, t.wsType, idStr, "Confirmed arrival of "+t.label)
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}

// handleDollPartImagePosition stores the display crop offset for the list image.
func handleDollPartImagePosition(w http.ResponseWriter, r *http.Request, t dollTable, idStr string) {
	id := validation.ParseID(idStr)
	if id == 0 {
		jsonErr(w, "invalid id", 400)
		return
	}
	var body struct {
		ImagePosition string `json:"image_position"`
	}
	if err := decodeBody(r, &body); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateMaxLength(ve, "image_position", body.ImagePosition, 100)
	if ve.HasErrors() {
		jsonErr(w, ve.Error(), 400)
		return
	}
	res, err := db.Exec("UPDATE "+t.table+" SET image_position=? WHERE id=?", body.ImagePosition, id)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonErr(w, "not found", 404)
		return
	}
	broadcast(t.wsType, "update", id)
	jsonResp(w, map[string]string{"status": "ok"})
}
