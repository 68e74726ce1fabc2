// Package tei extracts the redirect-relevant structure from TEI edition
// documents: the work identifier, the title, and the ordered page-break
// anchors. The corpus spans encoding eras with and without an explicit TEI
// namespace, so every query goes through the namespace-agnostic helpers of
// core/xml.
package tei

import (
	"strings"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/core/xml"
)

// Anchor is one page-break anchor of an edition.
type Anchor struct {
	// ID is the anchor's xml:id, e.g. "abc_jahr1_b12".
	ID string
	// N is the optional printed page label from @n.
	N string
	// Position is the anchor's 1-based ordinal among all anchors of the
	// edition in document order.
	Position int
}

// Edition is one parsed edition document.
type Edition struct {
	// File is the base file name the edition was read from.
	File string
	// Path is the full source path (or archive entry name).
	Path string
	// WorkID is the work's persistent identifier from the TEI header.
	WorkID string
	// Title is the edition title, empty when the header carries none.
	Title string
	// Anchors holds the page-break anchors in document order.
	Anchors []Anchor
	// Doc is the parsed document, retained for downstream queries.
	Doc *xml.Document
}

const (
	workIDPath = "//*[local-name()='teiHeader']//*[local-name()='publicationStmt']/*[local-name()='idno']"
	titlePath  = "//*[local-name()='titleStmt']/*[local-name()='title']"
)

// ParseEdition parses one edition document. The work identifier is required;
// a document without one cannot be addressed by the redirect table and the
// caller treats the error as fatal for the whole run.
func ParseEdition(file, path string, data []byte) (*Edition, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "tei", Path: path, Message: "not well-formed", Err: err}
	}

	ed := &Edition{
		File: file,
		Path: path,
		Doc:  doc,
	}

	idno, err := doc.XPathFirst(workIDPath)
	if err != nil {
		return nil, &errors.ParseError{Format: "tei", Path: path, Message: "work identifier query", Err: err}
	}
	if idno != nil {
		ed.WorkID = strings.TrimSpace(idno.Text())
	}
	if ed.WorkID == "" {
		return nil, errors.NewParse("tei", path, "missing work identifier")
	}

	title, err := doc.XPathFirst(titlePath)
	if err != nil {
		return nil, &errors.ParseError{Format: "tei", Path: path, Message: "title query", Err: err}
	}
	if title != nil {
		ed.Title = title.CollapsedText()
	}

	pbs, err := doc.XPath(xml.Path("pb"))
	if err != nil {
		return nil, &errors.ParseError{Format: "tei", Path: path, Message: "page-break query", Err: err}
	}

	// Positions are assigned in one forward pass with a running counter.
	// Only elements carrying an identifier are anchors.
	position := 0
	for _, pb := range pbs {
		id := pb.Attr("id")
		if id == "" {
			continue
		}
		position++
		ed.Anchors = append(ed.Anchors, Anchor{
			ID:       id,
			N:        pb.Attr("n"),
			Position: position,
		})
	}

	return ed, nil
}
