package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.MaxUploadMB != 32 {
		t.Errorf("MaxUploadMB = %d, want 32", cfg.MaxUploadMB)
	}
	if cfg.TesseractBinary != "tesseract" {
		t.Errorf("TesseractBinary = %q, want tesseract", cfg.TesseractBinary)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("TESSERACT_LANG", "eng+deu")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.TesseractLang != "eng+deu" {
		t.Errorf("TesseractLang = %q, want eng+deu", cfg.TesseractLang)
	}
	if !cfg.LogPretty {
		t.Error("LogPretty = false, want true")
	}
}

func TestLoadRejectsNonPositiveUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for MAX_UPLOAD_MB=0")
	}
}
