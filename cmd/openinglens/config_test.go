package main

import (
	"strings"
	"testing"
)

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		errorSubstr string
	}{
		{
			name: "defaults are valid",
			args: nil,
		},
		{
			name: "format inferred from svg extension",
			args: []string{"-out", "graph.svg"},
		},
		{
			name:        "unknown format",
			args:        []string{"-format", "webp"},
			expectError: true,
			errorSubstr: "unsupported format",
		},
		{
			name:        "unknown mode",
			args:        []string{"-mode", "fancy"},
			expectError: true,
			errorSubstr: "unsupported mode",
		},
		{
			name:        "unknown cluster method",
			args:        []string{"-cluster", "spectral"},
			expectError: true,
			errorSubstr: "unsupported cluster method",
		},
		{
			name:        "zero width",
			args:        []string{"-width", "0"},
			expectError: true,
			errorSubstr: "width and height",
		},
		{
			name:        "negative pixel ratio",
			args:        []string{"-pixel-ratio", "-1"},
			expectError: true,
			errorSubstr: "pixel ratio",
		},
		{
			name:        "negative k",
			args:        []string{"-k", "-2"},
			expectError: true,
			errorSubstr: "k cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.args)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("error %q does not contain %q", err, tt.errorSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Format != "png" && cfg.Format != "svg" {
				t.Errorf("format = %q", cfg.Format)
			}
		})
	}
}

func TestLoadConfig_AutoClusterAlias(t *testing.T) {
	cfg, err := LoadConfig([]string{"-cluster", "auto", "-k", "5"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Method != "kmeans" {
		t.Errorf("method = %q, want kmeans", cfg.Method)
	}
	if cfg.K != 0 {
		t.Errorf("k = %d, auto must select k itself", cfg.K)
	}
}

func TestLoadConfig_FormatInference(t *testing.T) {
	cfg, err := LoadConfig([]string{"-out", "board.svg"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != "svg" {
		t.Errorf("format = %q, want svg", cfg.Format)
	}

	cfg, err = LoadConfig([]string{"-out", "board.dat"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != "png" {
		t.Errorf("unknown extension should default to png, got %q", cfg.Format)
	}
}

func TestLoadConfig_DBFromEnv(t *testing.T) {
	t.Setenv("OPENINGLENS_DB_PATH", "/tmp/custom.db")
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("db path = %q, want env override", cfg.DBPath)
	}

	cfg, err = LoadConfig([]string{"-db", "/tmp/flag.db"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != "/tmp/flag.db" {
		t.Errorf("db path = %q, flag must beat env", cfg.DBPath)
	}
}
