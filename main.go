package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"dollcase/internal/response"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	configPath := flag.String("config", "dollcase.yaml", "Path to YAML config file")
	flag.Parse()

	loaded, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("Config load failed:", err)
	}
	cfg = loaded
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if name := os.Getenv("DOLLCASE_APP_NAME"); name != "" {
		cfg.AppName = name
	}

	if err := initDB(cfg.DBPath); err != nil {
		log.Fatal("DB init failed:", err)
	}
	seedDB()

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	})

	// WebSocket change feed
	mux.HandleFunc("/ws", handleWebSocket)

	// Auth routes
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			handleLogin(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			handleLogout(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		handleMe(w, r)
	})

	// API routes - using a simple router
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		path = strings.TrimSuffix(path, "/")
		parts := strings.Split(path, "/")

		switch {
		// Health
		case path == "health" && r.Method == "GET":
			handleHealth(w, r)

		// Stats
		case path == "dolls/stats" && r.Method == "GET":
			handleDollStats(w, r)
		case path == "stats/total-expenses" && r.Method == "GET":
			handleTotalExpenses(w, r)
		case path == "stats/monthly-trend" && r.Method == "GET":
			handleMonthlyTrend(w, r)

		// Audit
		case path == "audit" && r.Method == "GET":
			handleAuditLog(w, r)

		// Doll heads
		case parts[0] == "doll-heads" && len(parts) == 1 && r.Method == "GET":
			handleListDollParts(w, r, dollHeads)
		case parts[0] == "doll-heads" && len(parts) == 1 && r.Method == "POST":
			handleCreateDollPart(w, r, dollHeads)
		case parts[0] == "doll-heads" && len(parts) == 2 && r.Method == "GET":
			handleGetDollPart(w, r, dollHeads, parts[1])
		case parts[0] == "doll-heads" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateDollPart(w, r, dollHeads, parts[1])
		case parts[0] == "doll-heads" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteDollPart(w, r, dollHeads, parts[1])
		case parts[0] == "doll-heads" && len(parts) == 3 && parts[2] == "payment" && r.Method == "PUT":
			handleDollPartPayment(w, r, dollHeads, parts[1])
		case parts[0] == "doll-heads" && len(parts) == 3 && parts[2] == "arrival" && r.Method == "PUT":
			handleDollPartArrival(w, r, dollHeads, parts[1])
		case parts[0] == "doll-heads" && len(parts) == 3 && parts[2] == "image-position" && r.Method == "PUT":
			handleDollPartImagePosition(w, r, dollHeads, parts[1])

		// Doll bodies
		case parts[0] == "doll-bodies" && len(parts) == 1 && r.Method == "GET":
			handleListDollParts(w, r, dollBodies)
		case parts[0] == "doll-bodies" && len(parts) == 1 && r.Method == "POST":
			handleCreateDollPart(w, r, dollBodies)
		case parts[0] == "doll-bodies" && len(parts) == 2 && r.Method == "GET":
			handleGetDollPart(w, r, dollBodies, parts[1])
		case parts[0] == "doll-bodies" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateDollPart(w, r, dollBodies, parts[1])
		case parts[0] == "doll-bodies" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteDollPart(w, r, dollBodies, parts[1])
		case parts[0] == "doll-bodies" && len(parts) == 3 && parts[2] == "payment" && r.Method == "PUT":
			handleDollPartPayment(w, r, dollBodies, parts[1])
		case parts[0] == "doll-bodies" && len(parts) == 3 && parts[2] == "arrival" && r.Method == "PUT":
			handleDollPartArrival(w, r, dollBodies, parts[1])
		case parts[0] == "doll-bodies" && len(parts) == 3 && parts[2] == "image-position" && r.Method == "PUT":
			handleDollPartImagePosition(w, r, dollBodies, parts[1])

		// Makeup artists
		case parts[0] == "makeup-artists" && len(parts) == 1 && r.Method == "GET":
			handleListArtists(w, r)
		case parts[0] == "makeup-artists" && len(parts) == 1 && r.Method == "POST":
			handleCreateArtist(w, r)
		case parts[0] == "makeup-artists" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateArtist(w, r, parts[1])
		case parts[0] == "makeup-artists" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteArtist(w, r, parts[1])

		// Makeup history
		case parts[0] == "makeup-history" && len(parts) == 1 && r.Method == "GET":
			handleListMakeup(w, r, makeupHistory)
		case parts[0] == "makeup-history" && len(parts) == 1 && r.Method == "POST":
			handleCreateMakeup(w, r, makeupHistory)
		case parts[0] == "makeup-history" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateMakeup(w, r, makeupHistory, parts[1])
		case parts[0] == "makeup-history" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteMakeup(w, r, makeupHistory, parts[1])

		// Current makeup (one row per head)
		case parts[0] == "current-makeup" && len(parts) == 1 && r.Method == "GET":
			handleListMakeup(w, r, makeupCurrent)
		case parts[0] == "current-makeup" && len(parts) == 1 && r.Method == "POST":
			handleCreateMakeup(w, r, makeupCurrent)
		case parts[0] == "current-makeup" && len(parts) == 3 && parts[1] == "head" && r.Method == "PUT":
			handleSetMakeupForHead(w, r, makeupCurrent, parts[2])
		case parts[0] == "current-makeup" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteMakeup(w, r, makeupCurrent, parts[1])

		// Makeup appointments (one row per head)
		case parts[0] == "makeup-appointments" && len(parts) == 1 && r.Method == "GET":
			handleListMakeup(w, r, makeupAppointments)
		case parts[0] == "makeup-appointments" && len(parts) == 1 && r.Method == "POST":
			handleCreateMakeup(w, r, makeupAppointments)
		case parts[0] == "makeup-appointments" && len(parts) == 3 && parts[1] == "head" && r.Method == "PUT":
			handleSetMakeupForHead(w, r, makeupAppointments, parts[2])
		case parts[0] == "makeup-appointments" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteMakeup(w, r, makeupAppointments, parts[1])

		// Body makeup
		case parts[0] == "body-makeup" && len(parts) == 1 && r.Method == "GET":
			handleListBodyMakeup(w, r)
		case parts[0] == "body-makeup" && len(parts) == 1 && r.Method == "POST":
			handleCreateBodyMakeup(w, r)
		case parts[0] == "body-makeup" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteBodyMakeup(w, r, parts[1])

		// Wardrobe
		case parts[0] == "wardrobe" && len(parts) == 1 && r.Method == "GET":
			handleListWardrobe(w, r)
		case parts[0] == "wardrobe" && len(parts) == 1 && r.Method == "POST":
			handleCreateWardrobe(w, r)
		case parts[0] == "wardrobe" && len(parts) == 2 && r.Method == "GET":
			handleGetWardrobe(w, r, parts[1])
		case parts[0] == "wardrobe" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateWardrobe(w, r, parts[1])
		case parts[0] == "wardrobe" && len(parts) == 2 && r.Method == "DELETE":
			handleDeleteWardrobe(w, r, parts[1])

		// Photos
		case parts[0] == "photos" && len(parts) == 1 && r.Method == "GET":
			handleListPhotos(w, r)
		case parts[0] == "photos" && len(parts) == 1 && r.Method == "POST":
			handleCreatePhoto(w, r)
		case parts[0] == "photos" && len(parts) == 3 && parts[2] == "cover" && r.Method == "PUT":
			handleSetCoverPhoto(w, r, parts[1])
		case parts[0] == "photos" && len(parts) == 2 && r.Method == "PUT":
			handleUpdatePhoto(w, r, parts[1])
		case parts[0] == "photos" && len(parts) == 2 && r.Method == "DELETE":
			handleDeletePhoto(w, r, parts[1])

		// Sort order
		case parts[0] == "sort" && len(parts) == 2 && r.Method == "POST":
			handleSortEntity(w, r, parts[1])

		// Exports
		case path == "export/dolls" && r.Method == "GET":
			handleExportDolls(w, r)
		case path == "export/wardrobe" && r.Method == "GET":
			handleExportWardrobe(w, r)

		default:
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("%s server starting on http://localhost%s", cfg.AppName, addr)
	log.Fatal(http.ListenAndServe(addr, logging(requireAuth(mux))))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(); err != nil {
		jsonErr(w, "database unavailable", 503)
		return
	}
	jsonResp(w, map[string]string{"status": "ok"})
}

func jsonResp(w http.ResponseWriter, data interface{}) {
	response.JSON(w, data)
}

func jsonRespMeta(w http.ResponseWriter, data interface{}, total, page, limit int) {
	response.JSONMeta(w, data, total, page, limit)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	response.Err(w, msg, code)
}

func decodeBody(r *http.Request, v interface{}) error {
	return response.DecodeBody(r, v)
}
