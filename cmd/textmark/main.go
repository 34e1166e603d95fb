package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/textmark/internal/corpus"
	"github.com/cognicore/textmark/internal/htmltext"
	"github.com/cognicore/textmark/pkg/textmark"
	"github.com/cognicore/textmark/pkg/textmark/annotator"
	"github.com/cognicore/textmark/pkg/textmark/config"
	"github.com/cognicore/textmark/pkg/textmark/journal"
	"github.com/cognicore/textmark/pkg/textmark/surface"
	"github.com/cognicore/textmark/pkg/textmark/surface/domsurface"
)

func main() {
	var (
		inPath       = flag.String("in", "", "Text or HTML file to annotate")
		corpusPath   = flag.String("corpus", "", "JSONL corpus (alternative to --in)")
		docID        = flag.String("doc", "", "Document id within --corpus (default: first)")
		configPath   = flag.String("config", "", "YAML config file (optional)")
		stoplistPath = flag.String("stoplist", "", "Stoplist file (optional)")
		journalPath  = flag.String("journal", "", "SQLite journal of tag transitions (optional)")
		dom          = flag.Bool("dom", false, "Apply markers to a parsed HTML tree instead of in memory")
		keyword      = flag.String("keyword", "", "One-shot keyword search (non-interactive mode)")
	)
	flag.Parse()

	if (*inPath == "") == (*corpusPath == "") {
		log.Fatal("exactly one of --in or --corpus required")
	}

	text, label, err := loadText(*inPath, *corpusPath, *docID)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	sess, cleanup, err := buildSession(ctx, text, label, *configPath, *stoplistPath, *journalPath, *dom)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()
	sess.out = os.Stdout

	// One-shot mode
	if *keyword != "" {
		if err := oneShot(ctx, sess, *keyword); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Printf("  textmark: %s\n", label)
	fmt.Printf("  %d terms, channels: %s\n", len(sess.doc.Annotator.Terms()),
		strings.Join(sess.doc.Annotator.Channels(), ", "))
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type help for commands (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := sess.execute(ctx, line); err != nil {
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

func oneShot(ctx context.Context, sess *session, keyword string) error {
	if err := sess.execute(ctx, "find "+keyword); err != nil {
		return err
	}
	for _, mk := range sess.doc.Map.View().Markers {
		if err := sess.execute(ctx, "hover "+mk.ID); err != nil {
			return err
		}
	}
	return nil
}

// loadText reads the document to annotate and returns it with a label.
func loadText(inPath, corpusPath, docID string) (string, string, error) {
	if corpusPath != "" {
		docs, err := corpus.LoadFromJSONL(corpusPath)
		if err != nil {
			return "", "", err
		}
		doc := docs[0]
		if docID != "" {
			var ok bool
			if doc, ok = corpus.Find(docs, docID); !ok {
				return "", "", fmt.Errorf("document %q not found in %s", docID, corpusPath)
			}
		}
		label := doc.ID
		if doc.Title != "" {
			label += " (" + doc.Title + ")"
		}
		return doc.Text, label, nil
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return "", "", err
	}

	switch strings.ToLower(filepath.Ext(inPath)) {
	case ".html", ".htm":
		text, err := htmltext.ExtractString(string(data))
		if err != nil {
			return "", "", fmt.Errorf("extract %s: %w", inPath, err)
		}
		return text, filepath.Base(inPath), nil
	}
	return string(data), filepath.Base(inPath), nil
}

func buildSession(ctx context.Context, text, label, configPath, stoplistPath, journalPath string, dom bool) (*session, func(), error) {
	loader := config.Loader{
		ConfigPath:   configPath,
		StoplistPath: stoplistPath,
	}

	components, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var factory surface.Factory
	if dom {
		factory = domsurface.Factory
	}

	var (
		j         *journal.Journal
		observers []annotator.Observer
	)
	if journalPath != "" {
		j, err = journal.Open(ctx, journalPath, label)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		observers = append(observers, j)
	}

	doc, err := textmark.New(text, textmark.Options{
		Components: components,
		Surface:    factory,
		Observers:  observers,
	})
	if err != nil {
		if j != nil {
			j.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if j != nil {
			j.Close()
		}
	}

	return &session{doc: doc, journal: j}, cleanup, nil
}
