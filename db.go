package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var db *sql.DB

func initDB(path string) error {
	// Close previous connection if any (prevents goroutine leaks in tests)
	if db != nil {
		db.Close()
	}
	var err error
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err = sql.Open("sqlite", path+sep+"_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1")
	if err != nil {
		return err
	}

	// SQLite handles 1 writer + multiple readers with WAL mode
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	// Explicitly set WAL mode (some drivers don't parse connection string params correctly)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	return runMigrations(db)
}

// dollPartDDL builds the shared table definition for doll_heads / doll_bodies.
// Price columns stay nullable: the stats fallback chain distinguishes an
// unset price from an explicit zero.
func dollPartDDL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		maker TEXT DEFAULT '',
		mold TEXT DEFAULT '',
		skin_tone TEXT DEFAULT '',
		size_category TEXT DEFAULT '',
		original_price REAL CHECK(original_price >= 0),
		actual_price REAL CHECK(actual_price >= 0),
		total_price REAL CHECK(total_price >= 0),
		deposit REAL CHECK(deposit >= 0),
		final_payment REAL CHECK(final_payment >= 0),
		ownership_status TEXT DEFAULT 'owned' CHECK(ownership_status IN ('owned','preorder','wishlist')),
		payment_status TEXT DEFAULT 'full_paid' CHECK(payment_status IN ('deposit_only','full_paid')),
		release_date TEXT DEFAULT '',
		received_date TEXT DEFAULT '',
		image_path TEXT DEFAULT '',
		image_position TEXT DEFAULT '',
		sort_order INTEGER DEFAULT 0,
		notes TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
}

// headMakeupDDL builds the shared table definition for the three head-makeup
// variants. No cascade from doll_heads: deleting a head leaves orphaned
// makeup rows, a documented inconsistency kept as-is.
func headMakeupDDL(table, dateCol string, singleton bool) string {
	unique := ""
	if singleton {
		unique = " UNIQUE"
	}
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		head_id INTEGER NOT NULL` + unique + `,
		artist_id INTEGER,
		artist_name TEXT DEFAULT '',
		fee REAL CHECK(fee >= 0),
		` + dateCol + ` TEXT DEFAULT '',
		notes TEXT DEFAULT '',
		image_path TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
}

type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations is the ordered, versioned schema history. Each entry runs at
// most once and is recorded in schema_migrations; statements within a
// version must be individually idempotent so a crashed run can be repeated.
var migrations = []migration{
	{1, "doll part tables", []string{
		dollPartDDL("doll_heads"),
		dollPartDDL("doll_bodies"),
	}},
	{2, "makeup tables", []string{
		`CREATE TABLE IF NOT EXISTS makeup_artists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			contact TEXT DEFAULT '',
			specialty TEXT DEFAULT '',
			price_range TEXT DEFAULT '',
			is_favorite INTEGER DEFAULT 0,
			sort_order INTEGER DEFAULT 0,
			notes TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		headMakeupDDL("makeup_history", "makeup_date", false),
		headMakeupDDL("makeup_current", "makeup_date", true),
		headMakeupDDL("makeup_appointments", "appointment_date", true),
		`CREATE TABLE IF NOT EXISTS body_makeup (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			body_id INTEGER NOT NULL,
			artist_id INTEGER,
			artist_name TEXT DEFAULT '',
			fee REAL CHECK(fee >= 0),
			makeup_date TEXT DEFAULT '',
			notes TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}},
	{3, "wardrobe and photos", []string{
		`CREATE TABLE IF NOT EXISTS wardrobe_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT DEFAULT 'other' CHECK(category IN ('dress','shoes','wig','eyes','accessory','outfit','other')),
			ownership_status TEXT DEFAULT 'owned' CHECK(ownership_status IN ('owned','preorder')),
			total_price REAL CHECK(total_price >= 0),
			deposit REAL CHECK(deposit >= 0),
			final_payment REAL CHECK(final_payment >= 0),
			sizes TEXT DEFAULT '[]',
			image_path TEXT DEFAULT '',
			sort_order INTEGER DEFAULT 0,
			notes TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS photos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type TEXT NOT NULL CHECK(entity_type IN ('head','body')),
			entity_id INTEGER NOT NULL,
			photo_type TEXT DEFAULT 'custom' CHECK(photo_type IN ('official','arrival','custom')),
			image_path TEXT NOT NULL,
			is_cover INTEGER DEFAULT 0,
			caption TEXT DEFAULT '',
			sort_order INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_photos_entity ON photos(entity_type, entity_id)`,
	}},
	{4, "users and sessions", []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT,
			role TEXT DEFAULT 'user',
			active INTEGER DEFAULT 1,
			last_login TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}},
	{5, "audit log", []string{
		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT DEFAULT '',
			action TEXT NOT NULL,
			module TEXT NOT NULL,
			record_id TEXT NOT NULL,
			summary TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}},
}

func runMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := conn.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		rows.Scan(&v)
		applied[v] = true
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		for _, s := range m.stmts {
			if _, err := tx.Exec(s); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w\nSQL: %s", m.version, m.name, err, s)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

// seedDB creates the default admin account on first boot.
func seedDB() {
	var count int
	db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed: hash error: %v", err)
		return
	}
	_, err = db.Exec("INSERT INTO users (username, password_hash, display_name, role) VALUES (?, ?, ?, ?)",
		"admin", string(hash), "Administrator", "admin")
	if err != nil {
		log.Printf("seed: insert admin: %v", err)
		return
	}
	log.Println("seeded default admin user (username: admin, password: admin) - change it")
}

func ns(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nf(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fp(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func ni(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func ip(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
