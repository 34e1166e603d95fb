package domsurface

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
	"github.com/cognicore/textmark/pkg/textmark/surface"
)

// Surface keeps the rendered markup as an HTML node tree and applies
// markers by editing each unit's class attribute in place.
type Surface struct {
	pristine  string
	secondary string
	nodes     []*html.Node
	units     map[surface.UnitID]*html.Node
	byCanon   map[string][]surface.UnitID
}

// New parses the rendered layout into a node tree.
func New(layout surface.Layout) (*Surface, error) {
	return Parse(surface.Render(layout, nil), layout.SecondaryAttr())
}

// Factory adapts New to surface.Factory.
func Factory(layout surface.Layout) (surface.Surface, error) {
	return New(layout)
}

// Parse builds a surface from existing markup. Units are the elements
// carrying both a data-unit and the secondary attribute.
func Parse(markup, secondaryAttr string) (*Surface, error) {
	s := &Surface{pristine: markup, secondary: secondaryAttr}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) load() error {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(s.pristine), body)
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}

	s.nodes = nodes
	s.units = make(map[surface.UnitID]*html.Node)
	s.byCanon = make(map[string][]surface.UnitID)

	var walk func(*html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode {
			if err := s.index(n); err != nil {
				return err
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range nodes {
		if err := walk(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) index(n *html.Node) error {
	rawID, hasID := attr(n, "data-unit")
	canonical, hasCanon := attr(n, s.secondary)
	if !hasID || !hasCanon {
		return nil
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("unit id %q: %w", rawID, internalerr.ErrInvalidInput)
	}
	unit := surface.UnitID(id)
	if _, dup := s.units[unit]; dup {
		return fmt.Errorf("unit id %d: %w", id, internalerr.ErrDuplicate)
	}
	s.units[unit] = n
	s.byCanon[canonical] = append(s.byCanon[canonical], unit)
	return nil
}

// AddMarker implements surface.Surface.
func (s *Surface) AddMarker(unit surface.UnitID, marker string) {
	n, ok := s.units[unit]
	if !ok {
		return
	}
	list := classes(n)
	for _, c := range list {
		if c == marker {
			return
		}
	}
	setClasses(n, append(list, marker))
}

// RemoveMarker implements surface.Surface.
func (s *Surface) RemoveMarker(unit surface.UnitID, marker string) {
	n, ok := s.units[unit]
	if !ok {
		return
	}
	list := classes(n)
	kept := list[:0]
	for _, c := range list {
		if c != marker {
			kept = append(kept, c)
		}
	}
	setClasses(n, kept)
}

// HasMarker implements surface.Surface.
func (s *Surface) HasMarker(unit surface.UnitID, marker string) bool {
	n, ok := s.units[unit]
	if !ok {
		return false
	}
	for _, c := range classes(n) {
		if c == marker {
			return true
		}
	}
	return false
}

// ToggleMarker implements surface.Surface.
func (s *Surface) ToggleMarker(unit surface.UnitID, marker string) bool {
	if s.HasMarker(unit, marker) {
		s.RemoveMarker(unit, marker)
		return false
	}
	s.AddMarker(unit, marker)
	return s.HasMarker(unit, marker)
}

// UnitsWithSecondarySelector implements surface.Surface.
func (s *Surface) UnitsWithSecondarySelector(canonical string) []surface.UnitID {
	units := s.byCanon[canonical]
	out := make([]surface.UnitID, len(units))
	copy(out, units)
	return out
}

// Reset implements surface.Surface by re-parsing the pristine markup.
func (s *Surface) Reset() {
	// The pristine markup parsed once already, so this cannot fail.
	_ = s.load()
}

// Markup implements surface.Surface.
func (s *Surface) Markup() string {
	var b strings.Builder
	for _, n := range s.nodes {
		if err := html.Render(&b, n); err != nil {
			return b.String()
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func setClasses(n *html.Node, list []string) {
	val := strings.Join(list, " ")
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: val})
}
