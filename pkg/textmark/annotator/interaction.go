package annotator

import (
	"fmt"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

// Interaction is a logical kind of user input.
type Interaction string

const (
	PrimaryClick   Interaction = "primary-click"
	SecondaryClick Interaction = "secondary-click"
	RangeSelection Interaction = "range-selection"
)

// ParseInteraction validates an interaction name.
func ParseInteraction(s string) (Interaction, error) {
	switch k := Interaction(s); k {
	case PrimaryClick, SecondaryClick, RangeSelection:
		return k, nil
	}
	return "", fmt.Errorf("interaction %q: %w", s, internalerr.ErrInvalidInput)
}

// Event is an interaction already resolved to the text of its target.
type Event struct {
	Kind Interaction
	Text string
}

// Resolver turns a host-specific raw event into an Event. It returns false
// when the raw event carries nothing the annotator cares about.
type Resolver interface {
	Resolve(raw any) (Event, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(raw any) (Event, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(raw any) (Event, bool) { return f(raw) }

// RegisterInteraction binds an interaction kind to a channel. A later call
// for the same kind replaces the binding.
func (a *Annotator) RegisterInteraction(kind Interaction, channelID string) error {
	if _, err := ParseInteraction(string(kind)); err != nil {
		return err
	}
	if _, err := a.channel(channelID); err != nil {
		return err
	}
	a.bindings[kind] = channelID
	return nil
}

// Handle applies a resolved event. Clicks toggle the clicked term; a range
// selection toggles every taggable term of the selected text in order.
// Events of unbound kinds and events whose text has no taggable term are
// no-ops.
func (a *Annotator) Handle(ev Event) ([]Transition, error) {
	var words []string
	switch ev.Kind {
	case PrimaryClick, SecondaryClick:
		if c := a.tokenizer.Canonical(ev.Text); c != "" {
			words = []string{c}
		}
	case RangeSelection:
		words = a.tokenizer.Words(ev.Text)
	default:
		return nil, fmt.Errorf("interaction %q: %w", ev.Kind, internalerr.ErrInvalidInput)
	}
	if len(words) == 0 {
		return nil, nil
	}

	channelID, ok := a.bindings[ev.Kind]
	if !ok {
		return nil, nil
	}

	var out []Transition
	for _, w := range words {
		tr, ok, err := a.apply(channelID, w, opToggle)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, tr)
		}
	}
	return out, nil
}

// HandleRaw resolves a host event and applies it.
func (a *Annotator) HandleRaw(r Resolver, raw any) ([]Transition, error) {
	ev, ok := r.Resolve(raw)
	if !ok {
		return nil, nil
	}
	return a.Handle(ev)
}
