package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

func TestLoadStoplist(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stoplist.yaml")

	content := `terms:
  - the
  - a
  - and
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}

	expected := map[string]bool{"the": true, "a": true, "and": true}
	for _, term := range sl.Terms {
		if !expected[term] {
			t.Errorf("Unexpected term: %s", term)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "textmark.yaml")

	content := `stopwords: [cat]
synthetic_space: false
selectors:
  base: word
channels:
  - id: left
    marker: hl
    interactions: [primary-click]
occurrence:
  snippet_width: 12
  color: "#ff0"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Stopwords) != 1 || cfg.Stopwords[0] != "cat" {
		t.Errorf("Stopwords = %v", cfg.Stopwords)
	}
	if cfg.SyntheticSpace {
		t.Error("synthetic_space should be overridden")
	}
	if cfg.Selectors.Base != "word" || cfg.Selectors.Inert != "term-inert" {
		t.Errorf("Selectors = %+v", cfg.Selectors)
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0].ID != "left" {
		t.Errorf("Channels = %+v", cfg.Channels)
	}
	if cfg.Occurrence.SnippetWidth != 12 || cfg.Occurrence.Color != "#ff0" {
		t.Errorf("Occurrence = %+v", cfg.Occurrence)
	}
	if cfg.Occurrence.Extent != 400 {
		t.Errorf("unset extent should keep its default, got %v", cfg.Occurrence.Extent)
	}
	if cfg.Punctuation == "" {
		t.Error("unset punctuation should keep its default")
	}
}

func TestLoadMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	os.WriteFile(path, []byte("channels: [unclosed\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("Should error on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base", func(c *Config) { c.Selectors.Base = "" }},
		{"channel without id", func(c *Config) { c.Channels = append(c.Channels, ChannelConfig{Marker: "x"}) }},
		{"unknown interaction", func(c *Config) { c.Channels[0].Interactions = []string{"double-click"} }},
		{"interaction bound twice", func(c *Config) {
			c.Channels[1].Interactions = append(c.Channels[1].Interactions, "primary-click")
		}},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}
