package occurrence

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

// Defaults applied by DefaultOptions.
const (
	DefaultExtent       = 400
	DefaultMargin       = 8
	DefaultSnippetWidth = 60
	DefaultColor        = "yellow"
	DefaultSelector     = "occurrence"
)

// Options configures a Map.
type Options struct {
	Extent       float64 // length of the position axis
	Margin       float64 // space reserved at both ends of the axis
	SnippetWidth int     // runes on each side of an occurrence
	DefaultColor string
	Selector     string // prefix of marker ids
}

// DefaultOptions returns the built-in map geometry.
func DefaultOptions() Options {
	return Options{
		Extent:       DefaultExtent,
		Margin:       DefaultMargin,
		SnippetWidth: DefaultSnippetWidth,
		DefaultColor: DefaultColor,
		Selector:     DefaultSelector,
	}
}

// Marker is one occurrence drawn on the position axis.
type Marker struct {
	ID       string
	Position int
	Coord    float64
}

// View is the result of the latest Highlight call.
type View struct {
	Keyword  string
	Color    string
	Selector string
	Markers  []Marker
	Markup   string // full text with every match highlighted
}

// Overlay renders one absolutely positioned element per marker.
func (v View) Overlay() string {
	var b strings.Builder
	for _, mk := range v.Markers {
		fmt.Fprintf(&b, `<div class="%s" id="%s" style="top:%spx;background-color:%s"></div>`,
			html.EscapeString(v.Selector),
			html.EscapeString(mk.ID),
			strconv.FormatFloat(mk.Coord, 'f', 2, 64),
			html.EscapeString(v.Color))
		b.WriteByte('\n')
	}
	return b.String()
}

// Map indexes keyword occurrences over one document and maps them onto a
// fixed axis. It is meant to be driven by a single owner and is not safe
// for concurrent use.
type Map struct {
	text  string
	runes []rune
	opts  Options
	scale Scale

	view View
	byID map[string]Marker
}

// New fixes the coordinate mapping for text.
func New(text string, opts Options) (*Map, error) {
	if opts.SnippetWidth <= 0 {
		return nil, fmt.Errorf("snippet width %d must be positive: %w", opts.SnippetWidth, internalerr.ErrInvalidConfig)
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = DefaultColor
	}
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	scale, err := NewScale(utf8.RuneCountInString(text), opts.Extent, opts.Margin)
	if err != nil {
		return nil, err
	}
	return &Map{
		text:  text,
		runes: []rune(text),
		opts:  opts,
		scale: scale,
		view:  View{Selector: opts.Selector, Markup: html.EscapeString(text)},
		byID:  make(map[string]Marker),
	}, nil
}

// Scale returns the coordinate mapping.
func (m *Map) Scale() Scale {
	return m.scale
}

// Text returns the indexed document.
func (m *Map) Text() string {
	return m.text
}

// View returns the latest highlight.
func (m *Map) View() View {
	return m.view
}

// MarkerID derives the addressable id of the occurrence ending at pos.
func (m *Map) MarkerID(pos int) string {
	return m.opts.Selector + "-" + strconv.Itoa(pos)
}

// Highlight indexes keyword over the whole text and replaces the previous
// markers and highlighted markup. An empty color selects the default. On
// error the previous view is kept.
func (m *Map) Highlight(keyword, color string) (View, error) {
	if color == "" {
		color = m.opts.DefaultColor
	}
	ix, err := Indices(m.text, keyword)
	if err != nil {
		return m.view, err
	}

	view := View{
		Keyword:  keyword,
		Color:    color,
		Selector: m.opts.Selector,
		Markers:  make([]Marker, 0, ix.Len()),
		Markup:   ix.Join(html.EscapeString, wrapper(color)),
	}
	byID := make(map[string]Marker, ix.Len())
	for _, pos := range ix.Positions {
		mk := Marker{ID: m.MarkerID(pos), Position: pos, Coord: m.scale.Map(pos)}
		view.Markers = append(view.Markers, mk)
		byID[mk.ID] = mk
	}

	m.view = view
	m.byID = byID
	return view, nil
}

// Hover returns the snippet of a marker of the current view. It reports
// false for ids that are not part of the current view.
func (m *Map) Hover(markerID string) (string, bool) {
	mk, ok := m.byID[markerID]
	if !ok {
		return "", false
	}
	snippet, err := m.TextSnippet(mk.Position, m.view.Keyword, m.view.Color)
	if err != nil {
		return "", false
	}
	return snippet, true
}

// TextSnippet returns the text within SnippetWidth runes of position with
// every keyword match re-located inside the window and highlighted.
func (m *Map) TextSnippet(position int, keyword, color string) (string, error) {
	if color == "" {
		color = m.opts.DefaultColor
	}
	start, end := m.window(position)
	ix, err := Indices(string(m.runes[start:end]), keyword)
	if err != nil {
		return "", err
	}
	return ix.Join(html.EscapeString, wrapper(color)), nil
}

// window returns [position-W, position+W) clamped to the text.
func (m *Map) window(position int) (int, int) {
	n := len(m.runes)
	start := position - m.opts.SnippetWidth
	end := position + m.opts.SnippetWidth
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}

func wrapper(color string) func(string) string {
	open := `<mark style="background-color:` + html.EscapeString(color) + `">`
	return func(match string) string {
		return open + html.EscapeString(match) + `</mark>`
	}
}
