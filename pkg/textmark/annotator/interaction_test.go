package annotator

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

func bindAll(t *testing.T, a *Annotator) {
	t.Helper()
	for kind, ch := range map[Interaction]string{
		PrimaryClick:   "primary",
		SecondaryClick: "secondary",
		RangeSelection: "primary",
	} {
		if err := a.RegisterInteraction(kind, ch); err != nil {
			t.Fatalf("RegisterInteraction(%s): %v", kind, err)
		}
	}
}

func TestPrimaryAndSecondaryClick(t *testing.T) {
	a, rec := newTestAnnotator(t, "Cat, dog and cat.", nil)
	bindAll(t, a)

	trs, err := a.Handle(Event{Kind: PrimaryClick, Text: "cat."})
	if err != nil {
		t.Fatal(err)
	}
	if len(trs) != 1 || !trs[0].Added || trs[0].Units != 2 {
		t.Errorf("unexpected transitions %+v", trs)
	}

	if _, err := a.Handle(Event{Kind: SecondaryClick, Text: "Dog"}); err != nil {
		t.Fatal(err)
	}
	if tagged, _ := a.IsTagged("secondary", "dog"); !tagged {
		t.Error("secondary click should tag dog on the secondary channel")
	}
	if tagged, _ := a.IsTagged("primary", "dog"); tagged {
		t.Error("secondary click must not touch the primary channel")
	}

	want := "add:primary:Cat,,,add:secondary:dog"
	if got := strings.Join(rec.calls, ",,"); got != want {
		t.Errorf("callbacks = %s, want %s", got, want)
	}
}

func TestClickWithoutCanonicalIsNoop(t *testing.T) {
	a, rec := newTestAnnotator(t, "cat dog", nil)
	// No bindings at all: empty text must return before any channel lookup.
	for _, text := range []string{"", "   ", "...", "(-)"} {
		trs, err := a.Handle(Event{Kind: PrimaryClick, Text: text})
		if err != nil || len(trs) != 0 {
			t.Errorf("Handle(%q) = %v, %v; want no-op", text, trs, err)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("no callbacks expected, got %v", rec.calls)
	}
}

func TestUnboundInteractionIsNoop(t *testing.T) {
	a, rec := newTestAnnotator(t, "cat dog", nil)

	trs, err := a.Handle(Event{Kind: SecondaryClick, Text: "cat"})
	if err != nil || len(trs) != 0 {
		t.Errorf("unbound kind should be a no-op, got %v, %v", trs, err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("no callbacks expected, got %v", rec.calls)
	}
}

func TestRangeSelectionTogglesEachTerm(t *testing.T) {
	a, rec := newTestAnnotator(t, "the quick brown fox jumps over the lazy dog", nil)
	bindAll(t, a)

	a.Toggle("primary", "brown")
	rec.calls = nil

	trs, err := a.Handle(Event{Kind: RangeSelection, Text: "quick brown fox jumps over"})
	if err != nil {
		t.Fatal(err)
	}
	if len(trs) != 4 {
		t.Fatalf("Expected 4 transitions (stopword skipped), got %d", len(trs))
	}

	want := "add:primary:quick,remove:primary:brown,add:primary:fox,add:primary:jumps"
	if got := strings.Join(rec.calls, ","); got != want {
		t.Errorf("callbacks = %s, want %s", got, want)
	}
	tagged, _ := a.Tagged("primary")
	if strings.Join(tagged, " ") != "quick fox jumps" {
		t.Errorf("Tagged = %v", tagged)
	}
}

func TestRangeSelectionPartialWords(t *testing.T) {
	a, rec := newTestAnnotator(t, "alpha beta", nil)
	bindAll(t, a)

	// Selections may cut words; fragments that match no unit are skipped.
	trs, err := a.Handle(Event{Kind: RangeSelection, Text: "pha beta"})
	if err != nil {
		t.Fatal(err)
	}
	if len(trs) != 1 || trs[0].Canonical != "beta" {
		t.Errorf("unexpected transitions %+v", trs)
	}
	if len(rec.calls) != 1 {
		t.Errorf("callbacks = %v", rec.calls)
	}
}

func TestRegisterInteractionValidation(t *testing.T) {
	a, _ := newTestAnnotator(t, "cat", nil)

	if err := a.RegisterInteraction("double-click", "primary"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := a.Handle(Event{Kind: "hover", Text: "cat"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	// Rebinding replaces the previous channel.
	if err := a.RegisterInteraction(PrimaryClick, "primary"); err != nil {
		t.Fatal(err)
	}
	if err := a.RegisterInteraction(PrimaryClick, "secondary"); err != nil {
		t.Fatal(err)
	}
	a.Handle(Event{Kind: PrimaryClick, Text: "cat"})
	if tagged, _ := a.IsTagged("secondary", "cat"); !tagged {
		t.Error("rebound primary click should target the secondary channel")
	}
}

func TestParseInteraction(t *testing.T) {
	for _, s := range []string{"primary-click", "secondary-click", "range-selection"} {
		if k, err := ParseInteraction(s); err != nil || string(k) != s {
			t.Errorf("ParseInteraction(%q) = %q, %v", s, k, err)
		}
	}
	if _, err := ParseInteraction("click"); err == nil {
		t.Error("unknown interaction should fail")
	}
}

type hostEvent struct {
	button int
	target string
}

func TestHandleRaw(t *testing.T) {
	a, _ := newTestAnnotator(t, "cat dog", nil)
	bindAll(t, a)

	resolver := ResolverFunc(func(raw any) (Event, bool) {
		ev, ok := raw.(hostEvent)
		if !ok {
			return Event{}, false
		}
		kind := PrimaryClick
		if ev.button == 2 {
			kind = SecondaryClick
		}
		return Event{Kind: kind, Text: ev.target}, true
	})

	if _, err := a.HandleRaw(resolver, hostEvent{button: 2, target: "dog"}); err != nil {
		t.Fatal(err)
	}
	if tagged, _ := a.IsTagged("secondary", "dog"); !tagged {
		t.Error("resolved secondary click should tag dog")
	}

	trs, err := a.HandleRaw(resolver, "not an event")
	if err != nil || trs != nil {
		t.Errorf("unresolvable event should be ignored, got %v, %v", trs, err)
	}
}
