package annotator

import (
	"fmt"

	"github.com/cognicore/textmark/pkg/textmark/ingest"
	"github.com/cognicore/textmark/pkg/textmark/internalerr"
	"github.com/cognicore/textmark/pkg/textmark/surface"
	"github.com/cognicore/textmark/pkg/textmark/surface/memsurface"
)

// Default selectors used when Options leaves them empty.
const (
	DefaultBaseSelector  = "term"
	DefaultInertSelector = "term-inert"
)

// Options configures an Annotator
type Options struct {
	Tokenizer     *ingest.Tokenizer // nil: no stopwords, default punctuation
	BaseSelector  string
	InertSelector string
	Surface       surface.Factory // nil: in-memory surface
	Channels      []Channel

	// NoSyntheticSpace drops the space normally appended after every
	// taggable unit to keep adjacent units separately clickable.
	NoSyntheticSpace bool
}

// Annotator renders a text as taggable units and tracks per-channel tags.
// It is meant to be driven by a single owner and is not safe for concurrent
// use.
type Annotator struct {
	tokenizer *ingest.Tokenizer
	terms     []ingest.Term
	layout    surface.Layout
	units     map[surface.UnitID]Unit
	surface   surface.Surface
	pristine  string

	channels  map[string]Channel
	order     []string
	bindings  map[Interaction]string
	observers []Observer
}

// New segments text and renders its initial markup.
func New(text string, opts Options) (*Annotator, error) {
	tok := opts.Tokenizer
	if tok == nil {
		tok = ingest.NewTokenizer(nil)
	}
	if opts.BaseSelector == "" {
		opts.BaseSelector = DefaultBaseSelector
	}
	if opts.InertSelector == "" {
		opts.InertSelector = DefaultInertSelector
	}
	if opts.BaseSelector == opts.InertSelector {
		return nil, fmt.Errorf("base and inert selector are both %q: %w",
			opts.BaseSelector, internalerr.ErrInvalidConfig)
	}
	factory := opts.Surface
	if factory == nil {
		factory = memsurface.Factory
	}

	a := &Annotator{
		tokenizer: tok,
		terms:     tok.Segment(text),
		units:     make(map[surface.UnitID]Unit),
		channels:  make(map[string]Channel),
		bindings:  make(map[Interaction]string),
	}
	a.layout = a.buildLayout(opts)

	s, err := factory(a.layout)
	if err != nil {
		return nil, fmt.Errorf("build surface: %w", err)
	}
	a.surface = s
	a.pristine = s.Markup()

	for _, ch := range opts.Channels {
		if err := a.AddChannel(ch); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// buildLayout maps terms onto rendered segments. Unit ids are term indexes.
func (a *Annotator) buildLayout(opts Options) surface.Layout {
	layout := surface.Layout{
		BaseSelector:   opts.BaseSelector,
		InertSelector:  opts.InertSelector,
		SyntheticSpace: !opts.NoSyntheticSpace,
		Segments:       make([]surface.Segment, 0, len(a.terms)),
	}
	for i, term := range a.terms {
		seg := surface.Segment{Text: term.Raw, Canonical: term.Canonical}
		switch {
		case term.Kind == ingest.Space:
			seg.Kind = surface.Whitespace
		case term.Taggable():
			seg.Kind = surface.Addressable
			seg.Unit = surface.UnitID(i)
			a.units[seg.Unit] = Unit{ID: seg.Unit, Raw: term.Raw, Canonical: term.Canonical}
		default:
			seg.Kind = surface.Inert
		}
		layout.Segments = append(layout.Segments, seg)
	}
	return layout
}

// AddChannel registers a channel. Ids and markers must be unique.
func (a *Annotator) AddChannel(ch Channel) error {
	if err := ch.validate(); err != nil {
		return err
	}
	if _, dup := a.channels[ch.ID]; dup {
		return fmt.Errorf("channel %q: %w", ch.ID, internalerr.ErrDuplicate)
	}
	if ch.Marker == a.layout.BaseSelector || ch.Marker == a.layout.InertSelector {
		return fmt.Errorf("channel %q: marker %q collides with a selector: %w",
			ch.ID, ch.Marker, internalerr.ErrInvalidConfig)
	}
	for _, other := range a.channels {
		if other.Marker == ch.Marker {
			return fmt.Errorf("channel %q: marker %q already used by %q: %w",
				ch.ID, ch.Marker, other.ID, internalerr.ErrDuplicate)
		}
	}
	a.channels[ch.ID] = ch
	a.order = append(a.order, ch.ID)
	return nil
}

// Channels returns the registered channel ids in registration order.
func (a *Annotator) Channels() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Subscribe adds an observer notified of every transition on every channel.
func (a *Annotator) Subscribe(o Observer) {
	a.observers = append(a.observers, o)
}

func (a *Annotator) channel(id string) (Channel, error) {
	ch, ok := a.channels[id]
	if !ok {
		return Channel{}, fmt.Errorf("channel %q: %w", id, internalerr.ErrUnknownChannel)
	}
	return ch, nil
}

type op int

const (
	opToggle op = iota
	opAdd
	opRemove
)

// Toggle flips the channel marker on every unit of canonical. The first
// matching unit decides the new state. It returns true if the term is now
// tagged. A term with no units is a no-op.
func (a *Annotator) Toggle(channelID, canonical string) (bool, error) {
	tr, _, err := a.apply(channelID, canonical, opToggle)
	return tr.Added, err
}

// Add tags every unit of canonical.
func (a *Annotator) Add(channelID, canonical string) error {
	_, _, err := a.apply(channelID, canonical, opAdd)
	return err
}

// Remove untags every unit of canonical.
func (a *Annotator) Remove(channelID, canonical string) error {
	_, _, err := a.apply(channelID, canonical, opRemove)
	return err
}

// apply runs op and reports whether any unit matched.
func (a *Annotator) apply(channelID, canonical string, o op) (Transition, bool, error) {
	ch, err := a.channel(channelID)
	if err != nil {
		return Transition{}, false, err
	}

	canonical = a.tokenizer.Canonical(canonical)
	if canonical == "" {
		return Transition{}, false, nil
	}
	ids := a.surface.UnitsWithSecondarySelector(canonical)
	if len(ids) == 0 {
		return Transition{}, false, nil
	}

	var added bool
	switch o {
	case opToggle:
		added = !a.surface.HasMarker(ids[0], ch.Marker)
	case opAdd:
		added = true
	case opRemove:
		added = false
	}
	for _, id := range ids {
		if added {
			a.surface.AddMarker(id, ch.Marker)
		} else {
			a.surface.RemoveMarker(id, ch.Marker)
		}
	}

	tr := Transition{
		Channel:   ch.ID,
		Canonical: canonical,
		Unit:      a.units[ids[0]],
		Units:     len(ids),
		Added:     added,
	}
	a.notify(ch, tr)
	return tr, true, nil
}

func (a *Annotator) notify(ch Channel, tr Transition) {
	if tr.Added && ch.OnAdd != nil {
		ch.OnAdd(tr.Unit)
	}
	if !tr.Added && ch.OnRemove != nil {
		ch.OnRemove(tr.Unit)
	}
	for _, o := range a.observers {
		o.Notify(tr)
	}
}

// Clear removes the markers of the given channels from every unit. Without
// arguments it restores the pristine markup, dropping every channel's tags.
// Clear fires no callbacks.
func (a *Annotator) Clear(channelIDs ...string) error {
	if len(channelIDs) == 0 {
		a.surface.Reset()
		return nil
	}

	markers := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		ch, err := a.channel(id)
		if err != nil {
			return err
		}
		markers = append(markers, ch.Marker)
	}
	for _, seg := range a.layout.Segments {
		if seg.Kind != surface.Addressable {
			continue
		}
		for _, m := range markers {
			a.surface.RemoveMarker(seg.Unit, m)
		}
	}
	return nil
}

// IsTagged reports whether canonical carries the channel marker.
func (a *Annotator) IsTagged(channelID, canonical string) (bool, error) {
	ch, err := a.channel(channelID)
	if err != nil {
		return false, err
	}
	ids := a.surface.UnitsWithSecondarySelector(a.tokenizer.Canonical(canonical))
	if len(ids) == 0 {
		return false, nil
	}
	return a.surface.HasMarker(ids[0], ch.Marker), nil
}

// Tagged returns the canonical forms tagged on a channel, in order of first
// appearance.
func (a *Annotator) Tagged(channelID string) ([]string, error) {
	ch, err := a.channel(channelID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, seg := range a.layout.Segments {
		if seg.Kind != surface.Addressable {
			continue
		}
		if _, ok := seen[seg.Canonical]; ok {
			continue
		}
		seen[seg.Canonical] = struct{}{}
		if a.surface.HasMarker(seg.Unit, ch.Marker) {
			out = append(out, seg.Canonical)
		}
	}
	return out, nil
}

// Terms returns the segmented text.
func (a *Annotator) Terms() []ingest.Term {
	out := make([]ingest.Term, len(a.terms))
	copy(out, a.terms)
	return out
}

// Markup returns the current markup, markers included.
func (a *Annotator) Markup() string {
	return a.surface.Markup()
}

// InitialMarkup returns the markup as rendered before any tagging.
func (a *Annotator) InitialMarkup() string {
	return a.pristine
}
