package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/textmark/pkg/textmark"
	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/journal"
)

var errUsage = errors.New("usage")

// session executes interactive commands against one document.
type session struct {
	doc     *textmark.Document
	journal *journal.Journal // optional
	out     io.Writer
}

const helpText = `Commands:
  click <text>                  primary click on a term
  rclick <text>                 secondary click on a term
  select <text...>              range selection
  toggle|add|remove <ch> <term> programmatic tagging
  clear [channel...]            clear channels (all when omitted)
  tags                          list tagged terms per channel
  markup                        print the current markup
  find <keyword> [color]        highlight keyword occurrences
  hover <marker-id>             snippet for a marker of the last find
  snippet <pos> [keyword]       snippet around a position
  overlay                       print the marker overlay
  journal [channel]             list recorded transitions
`

func (s *session) execute(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	a := s.doc.Annotator

	switch cmd {
	case "help":
		fmt.Fprint(s.out, helpText)

	case "click", "rclick", "select":
		kind := map[string]annotator.Interaction{
			"click":  annotator.PrimaryClick,
			"rclick": annotator.SecondaryClick,
			"select": annotator.RangeSelection,
		}[cmd]
		trs, err := a.Handle(annotator.Event{Kind: kind, Text: rest})
		if err != nil {
			return err
		}
		s.printTransitions(trs)

	case "toggle", "add", "remove":
		ch, term, ok := strings.Cut(rest, " ")
		if !ok || strings.TrimSpace(term) == "" {
			return fmt.Errorf("%w: %s <channel> <term>", errUsage, cmd)
		}
		return s.tag(cmd, ch, strings.TrimSpace(term))

	case "clear":
		if err := a.Clear(strings.Fields(rest)...); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "cleared")

	case "tags":
		tagged := s.doc.Tagged()
		for _, id := range a.Channels() {
			fmt.Fprintf(s.out, "%s: %s\n", id, strings.Join(tagged[id], ", "))
		}

	case "markup":
		fmt.Fprintln(s.out, a.Markup())

	case "find":
		keyword, color, _ := strings.Cut(rest, " ")
		view, err := s.doc.Map.Highlight(keyword, strings.TrimSpace(color))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d occurrence(s) of %q\n", len(view.Markers), view.Keyword)
		for _, mk := range view.Markers {
			fmt.Fprintf(s.out, "  %s at %d → %.2f\n", mk.ID, mk.Position, mk.Coord)
		}

	case "hover":
		snippet, ok := s.doc.Map.Hover(rest)
		if !ok {
			return fmt.Errorf("no marker %q in the current view", rest)
		}
		fmt.Fprintln(s.out, snippet)

	case "snippet":
		posText, keyword, _ := strings.Cut(rest, " ")
		pos, err := strconv.Atoi(posText)
		if err != nil {
			return fmt.Errorf("%w: snippet <pos> [keyword]", errUsage)
		}
		view := s.doc.Map.View()
		if keyword = strings.TrimSpace(keyword); keyword == "" {
			keyword = view.Keyword
		}
		snippet, err := s.doc.Map.TextSnippet(pos, keyword, view.Color)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, snippet)

	case "overlay":
		fmt.Fprint(s.out, s.doc.Map.View().Overlay())

	case "journal":
		return s.listJournal(ctx, rest)

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (s *session) tag(cmd, channelID, term string) error {
	a := s.doc.Annotator
	switch cmd {
	case "toggle":
		added, err := a.Toggle(channelID, term)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s: tagged=%v\n", channelID, term, added)
		return nil
	case "add":
		if err := a.Add(channelID, term); err != nil {
			return err
		}
	default:
		if err := a.Remove(channelID, term); err != nil {
			return err
		}
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *session) printTransitions(trs []annotator.Transition) {
	if len(trs) == 0 {
		fmt.Fprintln(s.out, "no change")
		return
	}
	for _, tr := range trs {
		sign := "-"
		if tr.Added {
			sign = "+"
		}
		fmt.Fprintf(s.out, "%s %s %s (%d unit(s))\n", sign, tr.Channel, tr.Canonical, tr.Units)
	}
}

func (s *session) listJournal(ctx context.Context, channel string) error {
	if s.journal == nil {
		return errors.New("no journal configured (use --journal)")
	}
	entries, err := s.journal.List(ctx, channel, 0)
	if err != nil {
		return err
	}
	for _, e := range entries {
		action := "remove"
		if e.Added {
			action = "add"
		}
		fmt.Fprintf(s.out, "%s %s %s %s %q\n", e.At.Format("15:04:05.000"), e.Channel, action, e.Canonical, e.Raw)
	}
	if channel != "" {
		counts, err := s.journal.Counts(ctx, channel)
		if err != nil {
			return err
		}
		terms := make([]string, 0, len(counts))
		for term := range counts {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			fmt.Fprintf(s.out, "  %s: %d\n", term, counts[term])
		}
	}
	return nil
}
