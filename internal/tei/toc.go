package tei

import (
	"os"
	"path/filepath"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/xml"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
)

// Toc is the table-of-contents index of one work. It maps fragment
// identifiers to display terms via the corresp attribute of the ToC
// document's entries.
type Toc struct {
	terms map[string]string
}

// TocPath returns the conventional location of a work's ToC document.
func TocPath(tocDir, workID string) string {
	return filepath.Join(tocDir, workID+".xml")
}

// LoadWork reads the ToC document of one work. A missing or unparseable
// document yields an empty index; lookups against it resolve to the empty
// string and the redirect table is still produced.
func LoadWork(tocDir, workID string) *Toc {
	toc := &Toc{terms: make(map[string]string)}

	path := TocPath(tocDir, workID)
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Debug("toc unavailable", "path", path, "error", err)
		return toc
	}

	doc, err := xml.Parse(data)
	if err != nil {
		logging.Warn("toc unparseable", "path", path, "error", err)
		return toc
	}

	entries, err := doc.XPath("//*[@corresp]")
	if err != nil {
		logging.Warn("toc query failed", "path", path, "error", err)
		return toc
	}

	// The first entry for a fragment wins; later duplicates are ignored.
	for _, entry := range entries {
		corresp := entry.Attr("corresp")
		if corresp == "" {
			continue
		}
		if _, ok := toc.terms[corresp]; ok {
			continue
		}
		toc.terms[corresp] = entry.CollapsedText()
	}

	return toc
}

// Term returns the display term recorded for a fragment identifier, or the
// empty string when the ToC has no entry for it.
func (t *Toc) Term(fragmentID string) string {
	return t.terms[fragmentID]
}

// Len reports the number of indexed entries.
func (t *Toc) Len() int {
	return len(t.terms)
}
