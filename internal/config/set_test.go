package config

import "testing"

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"api_url", "https://plans.example.com/", "https://plans.example.com"},
		{"tui_theme", "nord", "nord"},
		{"sources_for_user", "true", "true"},
		{"verbose", "1", "true"},
		{"copy_to_clipboard", "false", "false"},
		{"log_file", "/tmp/p.log", "/tmp/p.log"},
		{"markdown.enabled", "true", "true"},
		{"markdown.style", "light", "light"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := Set(&cfg, tt.key, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := Get(cfg, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestSet_Errors(t *testing.T) {
	cfg := DefaultConfig()

	if err := Set(&cfg, "nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := Set(&cfg, "verbose", "maybe"); err == nil {
		t.Error("expected error for non-bool value")
	}
	if err := Set(&cfg, "api_url", "not a url"); err == nil {
		t.Error("expected error for invalid url")
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Error("failed Set should not modify config")
	}
	if _, err := Get(cfg, "nope"); err == nil {
		t.Error("expected error from Get for unknown key")
	}
}

func TestKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, k := range Keys() {
		if _, err := Get(cfg, k); err != nil {
			t.Errorf("Get(%s) error = %v", k, err)
		}
	}
}
