package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("port: got %q, want %q", cfg.Port, "8081")
	}
	if !cfg.MigrateOnStart {
		t.Error("migrate on start: got false, want true")
	}
	if cfg.RemovedItems != "delete" {
		t.Errorf("removed items: got %q, want %q", cfg.RemovedItems, "delete")
	}
	if cfg.InvoiceTimeout != 30*time.Second {
		t.Errorf("invoice timeout: got %v, want 30s", cfg.InvoiceTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("INVOICE_TIMEOUT", "5s")
	t.Setenv("REMOVED_ITEMS", "keep")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port: got %q, want %q", cfg.Port, "9000")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("allowed origins: got %v", cfg.AllowedOrigins)
	}
	if cfg.MigrateOnStart {
		t.Error("migrate on start: got true, want false")
	}
	if cfg.InvoiceTimeout != 5*time.Second {
		t.Errorf("invoice timeout: got %v, want 5s", cfg.InvoiceTimeout)
	}
	if cfg.RemovedItems != "keep" {
		t.Errorf("removed items: got %q, want %q", cfg.RemovedItems, "keep")
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"7000\"\nfile_store: gcs\ngcs_bucket: invoices\ndefault_tax_rate: \"8.25\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("port: got %q, want env value %q", cfg.Port, "7001")
	}
	if cfg.FileStore != "gcs" || cfg.GCSBucket != "invoices" {
		t.Errorf("file store: got %q/%q", cfg.FileStore, cfg.GCSBucket)
	}
	if cfg.DefaultTaxRate != "8.25" {
		t.Errorf("default tax rate: got %q, want %q", cfg.DefaultTaxRate, "8.25")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad bool", "MIGRATE_ON_START", "maybe"},
		{"bad duration", "INVOICE_TIMEOUT", "soon"},
		{"bad store", "FILE_STORE", "s3"},
		{"gcs without bucket", "FILE_STORE", "gcs"},
		{"bad policy", "REMOVED_ITEMS", "archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
