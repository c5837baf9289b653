// Package config tests validate config loading behavior.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadAppliesDefaults confirms defaults are applied on load.
func TestLoadAppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "topicnotes.yaml")
	if err := os.WriteFile(p, []byte("db:\n  path: ./x.db\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != 5180 {
		t.Fatalf("expected default http.port 5180, got %d", c.HTTP.Port)
	}
	if c.HTTP.Bind != "127.0.0.1" {
		t.Fatalf("expected default http.bind, got %q", c.HTTP.Bind)
	}
	if c.Session.TTLHours != 12 {
		t.Fatalf("expected default session.ttl_hours 12, got %d", c.Session.TTLHours)
	}
	if c.Store.TimeoutMS != 5000 {
		t.Fatalf("expected default store.timeout_ms 5000, got %d", c.Store.TimeoutMS)
	}
	if c.Log.Level != "info" {
		t.Fatalf("expected default log.level info, got %q", c.Log.Level)
	}
}

// TestLoadTreatsBlankPathAsUnset falls back to the default db path when
// db.path is whitespace-only instead of carrying the bogus value forward.
func TestLoadTreatsBlankPathAsUnset(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "topicnotes.yaml")
	if err := os.WriteFile(p, []byte("db:\n  path: \"   \"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DB.Path != "./data/topicnotes.db" {
		t.Fatalf("expected default db.path, got %q", c.DB.Path)
	}
}

// TestLoadRejectsHalfConfiguredTLS requires cert and key together.
func TestLoadRejectsHalfConfiguredTLS(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "topicnotes.yaml")
	body := "http:\n  tls:\n    cert_path: ./cert.pem\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for cert without key")
	}
}

// TestLoadRejectsBadPort rejects out-of-range ports.
func TestLoadRejectsBadPort(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "topicnotes.yaml")
	if err := os.WriteFile(p, []byte("http:\n  port: 70000\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}
