package surface

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// UnitID addresses one taggable unit of rendered markup.
type UnitID int

// Surface is the side-effect boundary of an annotator: the place where
// channel markers are attached to rendered units.
type Surface interface {
	AddMarker(unit UnitID, marker string)
	RemoveMarker(unit UnitID, marker string)
	HasMarker(unit UnitID, marker string) bool
	// ToggleMarker flips the marker and returns true if it is now present.
	ToggleMarker(unit UnitID, marker string) bool
	// UnitsWithSecondarySelector returns the units carrying canonical, in
	// document order.
	UnitsWithSecondarySelector(canonical string) []UnitID
	// Reset drops every marker and restores the pristine markup.
	Reset()
	Markup() string
}

// Factory builds a surface over a layout.
type Factory func(Layout) (Surface, error)

// SegmentKind classifies a layout segment.
type SegmentKind int

const (
	Whitespace SegmentKind = iota
	Inert
	Addressable
)

// Segment is one rendered piece of the source text.
type Segment struct {
	Text      string
	Canonical string
	Kind      SegmentKind
	Unit      UnitID // valid only for Addressable segments
}

// Layout describes how a text is rendered into markup.
type Layout struct {
	BaseSelector   string
	InertSelector  string
	SyntheticSpace bool
	Segments       []Segment
}

// SecondaryAttr is the attribute carrying a unit's canonical form. HTML
// attribute names are case-insensitive, so it is always lower case.
func (l Layout) SecondaryAttr() string {
	return "data-" + strings.ToLower(l.BaseSelector)
}

// Units returns the addressable segments keyed by unit id.
func (l Layout) Units() map[UnitID]Segment {
	units := make(map[UnitID]Segment)
	for _, seg := range l.Segments {
		if seg.Kind == Addressable {
			units[seg.Unit] = seg
		}
	}
	return units
}

// Render writes the layout as HTML. markers may be nil; when set it returns
// the marker classes of a unit in the order they were applied.
func Render(l Layout, markers func(UnitID) []string) string {
	var b strings.Builder
	for _, seg := range l.Segments {
		switch seg.Kind {
		case Whitespace:
			b.WriteString(html.EscapeString(seg.Text))
		case Inert:
			b.WriteString(`<span class="`)
			b.WriteString(html.EscapeString(l.InertSelector))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString(`</span>`)
		case Addressable:
			b.WriteString(`<span class="`)
			b.WriteString(html.EscapeString(l.BaseSelector))
			if markers != nil {
				for _, m := range markers(seg.Unit) {
					b.WriteByte(' ')
					b.WriteString(html.EscapeString(m))
				}
			}
			b.WriteString(`" `)
			b.WriteString(l.SecondaryAttr())
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(seg.Canonical))
			b.WriteString(`" data-unit="`)
			b.WriteString(strconv.Itoa(int(seg.Unit)))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString(`</span>`)
			if l.SyntheticSpace {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
