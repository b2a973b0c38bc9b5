package config

import "testing"

func TestLoadDerivesBaseURLFromLanguage(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("WIKI_BASE_URL", "")
	t.Setenv("WIKI_LANGUAGE", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Wiki.BaseURL != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("derived base URL = %q", cfg.Wiki.BaseURL)
	}
}

func TestLoadExplicitBaseURLWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("WIKI_BASE_URL", "https://ja.wikipedia.org/w/api.php")
	t.Setenv("WIKI_LANGUAGE", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Wiki.BaseURL != "https://ja.wikipedia.org/w/api.php" {
		t.Errorf("explicit base URL must not be overridden, got %q", cfg.Wiki.BaseURL)
	}
}

func TestLoadDefaultsToJapanese(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("WIKI_BASE_URL", "")
	t.Setenv("WIKI_LANGUAGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Wiki.BaseURL != "https://ja.wikipedia.org/w/api.php" {
		t.Errorf("default base URL = %q", cfg.Wiki.BaseURL)
	}
	if cfg.Wiki.Language != "ja" {
		t.Errorf("default language = %q", cfg.Wiki.Language)
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure without GEMINI_API_KEY")
	}
}
