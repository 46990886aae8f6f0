package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Fatalf("driver = %q, want %q", cfg.StoreDriver, DriverPostgres)
	}
	if cfg.HistoryPageSize != 200 {
		t.Fatalf("page size = %d, want 200", cfg.HistoryPageSize)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", cfg.Location())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	if _, err := Load(""); err == nil {
		t.Fatal("expected timezone error")
	}
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "mysql")

	if _, err := Load(""); err == nil {
		t.Fatal("expected driver error")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("TIMEZONE")
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("TIMEZONE")
	})

	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nTIMEZONE=America/Sao_Paulo\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-file" {
		t.Fatalf("secret = %q, want %q", cfg.JWTSecret, "from-file")
	}
	if cfg.Location().String() != "America/Sao_Paulo" {
		t.Fatalf("location = %q", cfg.Location().String())
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestDBURLEscapesCredentials(t *testing.T) {
	d := DB{Host: "db", Port: "5432", User: "app", Pass: "p@ss word", Name: "attendees", SSLMode: "disable"}
	got := d.URL()
	want := "postgres://app:p%40ss+word@db:5432/attendees?sslmode=disable"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("level(%q) = %v, want %v", in, got, want)
		}
	}
}
