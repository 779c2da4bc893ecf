package main

import (
	"net/http"
	"strconv"

	"dollcase/internal/audit"
)

// Audit action constant aliases.
const (
	AuditActionCreate = audit.ActionCreate
	AuditActionUpdate = audit.ActionUpdate
	AuditActionDelete = audit.ActionDelete
	AuditActionLogin  = audit.ActionLogin
	AuditActionLogout = audit.ActionLogout
)

// logAudit records an action against the global db and hub.
func logAudit(username, action, module, recordID, summary string) {
	audit.Log(db, wsHub, username, action, module, recordID, summary)
}

func getUsername(r *http.Request) string {
	return audit.GetUsername(db, r)
}

func handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			limit = v
		}
	}
	entries, err := audit.Recent(db, limit)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	jsonResp(w, entries)
}
