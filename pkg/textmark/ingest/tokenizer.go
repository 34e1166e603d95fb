package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/textmark/pkg/textmark/stoplist"
)

// DefaultPunctuation is the set of characters stripped when computing a
// term's canonical form.
const DefaultPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// Kind distinguishes word terms from the whitespace runs between them.
type Kind int

const (
	Word Kind = iota
	Space
)

// Term is one segment of the source text.
type Term struct {
	Raw        string
	Canonical  string
	Kind       Kind
	IsStopword bool
}

// Taggable reports whether the term can carry channel markers.
func (t Term) Taggable() bool {
	return t.Kind == Word && !t.IsStopword && t.Canonical != ""
}

// Tokenizer segments text on whitespace and derives canonical forms.
type Tokenizer struct {
	stops *stoplist.Manager
	punct map[rune]struct{}
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	return NewTokenizerWithStoplist(stoplist.NewManager(stopwords))
}

// NewTokenizerWithStoplist creates a tokenizer backed by an existing manager.
func NewTokenizerWithStoplist(stops *stoplist.Manager) *Tokenizer {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	t := &Tokenizer{stops: stops}
	t.SetPunctuation(DefaultPunctuation)
	return t
}

// SetPunctuation replaces the set of characters stripped by Canonical.
func (t *Tokenizer) SetPunctuation(chars string) {
	t.punct = make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		t.punct[r] = struct{}{}
	}
}

// Canonical strips punctuation and lower-cases raw.
// Example: "Cat," → "cat", "Run!" → "run"
func (t *Tokenizer) Canonical(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if _, strip := t.punct[r]; strip {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Segment splits text into alternating word and whitespace terms.
// Concatenating the Raw fields reproduces text exactly, except that NUL
// bytes become U+FFFD since HTML parsers drop them from text.
func (t *Tokenizer) Segment(text string) []Term {
	text = strings.ReplaceAll(text, "\x00", "\uFFFD")
	var terms []Term
	start := 0
	inSpace := false

	flush := func(end int) {
		if end <= start {
			return
		}
		raw := text[start:end]
		if inSpace {
			terms = append(terms, Term{Raw: raw, Kind: Space})
		} else {
			terms = append(terms, t.word(raw))
		}
		start = end
	}

	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			flush(i)
		}
		inSpace = space
	}
	flush(len(text))

	return terms
}

// Words returns the canonical forms of the taggable words in text, in order.
// Duplicates are kept.
func (t *Tokenizer) Words(text string) []string {
	var words []string
	for _, f := range strings.Fields(text) {
		term := t.word(f)
		if term.Taggable() {
			words = append(words, term.Canonical)
		}
	}
	return words
}

func (t *Tokenizer) word(raw string) Term {
	canonical := t.Canonical(raw)
	return Term{
		Raw:        raw,
		Canonical:  canonical,
		Kind:       Word,
		IsStopword: t.IsStopword(canonical),
	}
}

// IsStopword reports whether a canonical form is on the stoplist.
func (t *Tokenizer) IsStopword(canonical string) bool {
	return t.stops.IsStop(canonical)
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stops.Add(word)
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	t.stops.Remove(word)
}
