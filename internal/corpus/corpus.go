package corpus

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Doc is one document of a JSONL corpus.
type Doc struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// LoadFromJSONL loads documents from a JSONL file. Malformed lines and
// lines without text are skipped with a warning.
func LoadFromJSONL(path string) ([]Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []Doc
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var doc Doc
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if strings.TrimSpace(doc.Text) == "" {
			log.Printf("Warning: skipping document without text at line %d in %s", i+1, path)
			continue
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("line-%d", i+1)
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", path)
	}

	return docs, nil
}

// Find returns the document with the given id.
func Find(docs []Doc, id string) (Doc, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return Doc{}, false
}
