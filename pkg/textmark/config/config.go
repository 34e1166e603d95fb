package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/ingest"
	"github.com/cognicore/textmark/pkg/textmark/internalerr"
	"github.com/cognicore/textmark/pkg/textmark/occurrence"
)

// Config is the YAML configuration of a textmark document.
type Config struct {
	// Stopwords replaces the built-in English list when set. An explicit
	// empty list disables stopwords.
	Stopwords      []string         `yaml:"stopwords"`
	Punctuation    string           `yaml:"punctuation"`
	Selectors      Selectors        `yaml:"selectors"`
	SyntheticSpace bool             `yaml:"synthetic_space"`
	Channels       []ChannelConfig  `yaml:"channels"`
	Occurrence     OccurrenceConfig `yaml:"occurrence"`
}

// Selectors names the classes used in rendered markup.
type Selectors struct {
	Base  string `yaml:"base"`
	Inert string `yaml:"inert"`
}

// ChannelConfig declares a tag channel and the interactions that drive it.
type ChannelConfig struct {
	ID           string   `yaml:"id"`
	Marker       string   `yaml:"marker"`
	Interactions []string `yaml:"interactions"`
}

// OccurrenceConfig holds the position map geometry.
type OccurrenceConfig struct {
	Extent       float64 `yaml:"extent"`
	Margin       float64 `yaml:"margin"`
	SnippetWidth int     `yaml:"snippet_width"`
	Color        string  `yaml:"color"`
	Selector     string  `yaml:"selector"`
}

// Default returns the built-in configuration: a primary channel driven by
// clicks and selections and a secondary channel driven by secondary clicks.
func Default() *Config {
	return &Config{
		Punctuation: ingest.DefaultPunctuation,
		Selectors: Selectors{
			Base:  annotator.DefaultBaseSelector,
			Inert: annotator.DefaultInertSelector,
		},
		SyntheticSpace: true,
		Channels: []ChannelConfig{
			{
				ID:           "primary",
				Marker:       "mark",
				Interactions: []string{string(annotator.PrimaryClick), string(annotator.RangeSelection)},
			},
			{
				ID:           "secondary",
				Marker:       "mark-secondary",
				Interactions: []string{string(annotator.SecondaryClick)},
			},
		},
		Occurrence: OccurrenceConfig{
			Extent:       occurrence.DefaultExtent,
			Margin:       occurrence.DefaultMargin,
			SnippetWidth: occurrence.DefaultSnippetWidth,
			Color:        occurrence.DefaultColor,
			Selector:     occurrence.DefaultSelector,
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks channel declarations. Geometry is validated when the
// occurrence map is built.
func (c *Config) Validate() error {
	if c.Selectors.Base == "" || c.Selectors.Inert == "" {
		return fmt.Errorf("selectors must not be empty: %w", internalerr.ErrInvalidConfig)
	}
	bound := make(map[string]string)
	for _, ch := range c.Channels {
		if ch.ID == "" {
			return fmt.Errorf("channel without id: %w", internalerr.ErrInvalidConfig)
		}
		for _, kind := range ch.Interactions {
			if _, err := annotator.ParseInteraction(kind); err != nil {
				return fmt.Errorf("channel %q: %w", ch.ID, internalerr.ErrInvalidConfig)
			}
			if other, dup := bound[kind]; dup {
				return fmt.Errorf("interaction %q bound to both %q and %q: %w",
					kind, other, ch.ID, internalerr.ErrInvalidConfig)
			}
			bound[kind] = ch.ID
		}
	}
	return nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
