package annotator

import (
	"fmt"
	"strings"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
	"github.com/cognicore/textmark/pkg/textmark/surface"
)

// Unit is a rendered, taggable occurrence of a term.
type Unit struct {
	ID        surface.UnitID
	Raw       string
	Canonical string
}

// Handler observes one side of a channel transition. A nil Handler is absent.
type Handler func(Unit)

// Channel is an independent tagging dimension.
type Channel struct {
	ID       string
	Marker   string // class applied to tagged units
	OnAdd    Handler
	OnRemove Handler
}

func (c Channel) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("channel id is required: %w", internalerr.ErrInvalidConfig)
	}
	if c.Marker == "" || strings.ContainsFunc(c.Marker, isClassSeparator) {
		return fmt.Errorf("channel %q: marker %q must be a single class name: %w",
			c.ID, c.Marker, internalerr.ErrInvalidConfig)
	}
	return nil
}

func isClassSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// Transition describes one add or remove applied by a channel.
type Transition struct {
	Channel   string
	Canonical string
	Unit      Unit // first matching unit
	Units     int  // number of units affected
	Added     bool
}

// Observer receives every transition of every channel.
type Observer interface {
	Notify(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

// Notify implements Observer.
func (f ObserverFunc) Notify(t Transition) { f(t) }
