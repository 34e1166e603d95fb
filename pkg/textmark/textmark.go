package textmark

import (
	"fmt"

	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/config"
	"github.com/cognicore/textmark/pkg/textmark/occurrence"
	"github.com/cognicore/textmark/pkg/textmark/surface"
)

// Document pairs an annotator and an occurrence map over the same text.
type Document struct {
	text      string
	Annotator *annotator.Annotator
	Map       *occurrence.Map
}

// Options configures a Document
type Options struct {
	Components *config.Components // nil: built-in defaults
	Surface    surface.Factory    // nil: in-memory surface
	Observers  []annotator.Observer
}

// New builds both views of text.
func New(text string, opts Options) (*Document, error) {
	comp := opts.Components
	if comp == nil {
		var err error
		if comp, err = (&config.Loader{}).Load(); err != nil {
			return nil, err
		}
	}

	a, err := comp.NewAnnotator(text, opts.Surface)
	if err != nil {
		return nil, fmt.Errorf("annotator: %w", err)
	}
	for _, o := range opts.Observers {
		a.Subscribe(o)
	}

	m, err := comp.NewOccurrenceMap(text)
	if err != nil {
		return nil, fmt.Errorf("occurrence map: %w", err)
	}

	return &Document{text: text, Annotator: a, Map: m}, nil
}

// Text returns the source text.
func (d *Document) Text() string {
	return d.text
}

// Tagged returns the tagged terms of every channel, keyed by channel id.
func (d *Document) Tagged() map[string][]string {
	out := make(map[string][]string)
	for _, id := range d.Annotator.Channels() {
		// ids come from the annotator itself, so lookups cannot fail
		terms, _ := d.Annotator.Tagged(id)
		out[id] = terms
	}
	return out
}
