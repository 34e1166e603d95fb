package config

import (
	"fmt"

	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/ingest"
	"github.com/cognicore/textmark/pkg/textmark/occurrence"
	"github.com/cognicore/textmark/pkg/textmark/stoplist"
	"github.com/cognicore/textmark/pkg/textmark/surface"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ConfigPath   string
	StoplistPath string // replaces the configured stopwords when set
}

// Components holds all loaded configuration components
type Components struct {
	Config     *Config
	Tokenizer  *ingest.Tokenizer
	Annotator  annotator.Options
	Bindings   map[annotator.Interaction]string
	Occurrence occurrence.Options
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	stops := cfg.Stopwords
	if stops == nil {
		stops = stoplist.English
	}
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = sl.Terms
	}

	return Build(cfg, stops), nil
}

// Build turns a validated config into components.
func Build(cfg *Config, stopwords []string) *Components {
	tok := ingest.NewTokenizer(stopwords)
	if cfg.Punctuation != "" {
		tok.SetPunctuation(cfg.Punctuation)
	}

	comp := &Components{
		Config:    cfg,
		Tokenizer: tok,
		Annotator: annotator.Options{
			Tokenizer:        tok,
			BaseSelector:     cfg.Selectors.Base,
			InertSelector:    cfg.Selectors.Inert,
			NoSyntheticSpace: !cfg.SyntheticSpace,
		},
		Bindings: make(map[annotator.Interaction]string),
		Occurrence: occurrence.Options{
			Extent:       cfg.Occurrence.Extent,
			Margin:       cfg.Occurrence.Margin,
			SnippetWidth: cfg.Occurrence.SnippetWidth,
			DefaultColor: cfg.Occurrence.Color,
			Selector:     cfg.Occurrence.Selector,
		},
	}
	for _, ch := range cfg.Channels {
		comp.Annotator.Channels = append(comp.Annotator.Channels, annotator.Channel{
			ID:     ch.ID,
			Marker: ch.Marker,
		})
		for _, kind := range ch.Interactions {
			comp.Bindings[annotator.Interaction(kind)] = ch.ID
		}
	}
	return comp
}

// NewAnnotator builds an annotator for text with the configured channels
// and interaction bindings. A nil factory selects the in-memory surface.
func (c *Components) NewAnnotator(text string, factory surface.Factory) (*annotator.Annotator, error) {
	opts := c.Annotator
	opts.Surface = factory
	opts.Channels = append([]annotator.Channel(nil), c.Annotator.Channels...)

	a, err := annotator.New(text, opts)
	if err != nil {
		return nil, err
	}
	for kind, channelID := range c.Bindings {
		if err := a.RegisterInteraction(kind, channelID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// NewOccurrenceMap builds the position map for text.
func (c *Components) NewOccurrenceMap(text string) (*occurrence.Map, error) {
	return occurrence.New(text, c.Occurrence)
}
