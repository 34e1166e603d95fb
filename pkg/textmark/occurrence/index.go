package occurrence

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

// Index locates every match of a keyword in a text.
//
// Split has one more element than Matches; interleaving them reproduces
// the text: Split[0] + Matches[0] + Split[1] + ... + Split[n].
type Index struct {
	Split     []string
	Matches   []string
	Positions []int // rune offset just after each match
}

// Indices finds the non-overlapping, case-insensitive matches of keyword in
// text. keyword is a regular expression; callers wanting a literal match
// must quote it (see regexp.QuoteMeta). An empty keyword matches nothing.
// Zero-length matches are skipped.
func Indices(text, keyword string) (Index, error) {
	if keyword == "" {
		return Index{Split: []string{text}}, nil
	}
	re, err := compile(keyword)
	if err != nil {
		return Index{}, err
	}
	return indices(re, text), nil
}

func compile(keyword string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + keyword)
	if err != nil {
		return nil, fmt.Errorf("keyword %q: %v: %w", keyword, err, internalerr.ErrInvalidInput)
	}
	return re, nil
}

func indices(re *regexp.Regexp, text string) Index {
	var ix Index
	prev, runes := 0, 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start == end {
			continue
		}
		ix.Split = append(ix.Split, text[prev:start])
		ix.Matches = append(ix.Matches, text[start:end])
		runes += utf8.RuneCountInString(text[prev:end])
		ix.Positions = append(ix.Positions, runes)
		prev = end
	}
	ix.Split = append(ix.Split, text[prev:])
	return ix
}

// Len reports the number of matches.
func (ix Index) Len() int {
	return len(ix.Positions)
}

// Join reassembles the text, passing every segment through text and every
// match through match. Nil functions leave their input unchanged.
func (ix Index) Join(text, match func(string) string) string {
	if text == nil {
		text = identity
	}
	if match == nil {
		match = identity
	}
	var b strings.Builder
	for i, seg := range ix.Split {
		b.WriteString(text(seg))
		if i < len(ix.Matches) {
			b.WriteString(match(ix.Matches[i]))
		}
	}
	return b.String()
}

func identity(s string) string { return s }
