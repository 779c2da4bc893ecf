package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if c.Port != 9000 || c.DBPath != "dollcase.db" || c.SessionTTLHours != 24 {
		t.Errorf("Unexpected defaults: %+v", c)
	}
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dollcase.yaml")
	content := "port: 8080\ndb: custom.db\napp_name: My Collection\nsession_ttl_hours: 72\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if c.Port != 8080 || c.DBPath != "custom.db" || c.AppName != "My Collection" || c.SessionTTLHours != 72 {
		t.Errorf("Unexpected config: %+v", c)
	}
	// Unset keys keep their defaults
	if c.UploadDir != "uploads" {
		t.Errorf("upload_dir default lost: %s", c.UploadDir)
	}
}

func TestLoadConfig_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadConfig_SanitizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dollcase.yaml")
	if err := os.WriteFile(path, []byte("port: -1\nsession_ttl_hours: 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if c.Port != 9000 || c.SessionTTLHours != 24 {
		t.Errorf("Bad values not reset to defaults: %+v", c)
	}
}
