package textmark

import (
	"strings"
	"testing"

	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/surface/domsurface"
)

func TestDocumentDefaults(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"

	var seen []annotator.Transition
	doc, err := New(text, Options{
		Surface:   domsurface.Factory,
		Observers: []annotator.Observer{annotator.ObserverFunc(func(tr annotator.Transition) { seen = append(seen, tr) })},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if doc.Text() != text {
		t.Errorf("Text = %q", doc.Text())
	}

	doc.Annotator.Handle(annotator.Event{Kind: annotator.RangeSelection, Text: "quick brown fox"})
	doc.Annotator.Handle(annotator.Event{Kind: annotator.SecondaryClick, Text: "dog"})

	tagged := doc.Tagged()
	if strings.Join(tagged["primary"], " ") != "quick brown fox" {
		t.Errorf("primary = %v", tagged["primary"])
	}
	if strings.Join(tagged["secondary"], " ") != "dog" {
		t.Errorf("secondary = %v", tagged["secondary"])
	}
	if len(seen) != 4 {
		t.Errorf("observer should see 4 transitions, got %d", len(seen))
	}

	view, err := doc.Map.Highlight("the", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Markers) != 2 {
		t.Errorf("Expected 2 markers, got %d", len(view.Markers))
	}
	if _, ok := doc.Map.Hover(view.Markers[0].ID); !ok {
		t.Error("hover should resolve the first marker")
	}

	doc.Annotator.Clear()
	if doc.Annotator.Markup() != doc.Annotator.InitialMarkup() {
		t.Error("Clear should restore the initial markup")
	}
}
