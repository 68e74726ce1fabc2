package tei

import (
	"strings"
	"testing"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
)

const editionSample = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title>Mercks
          Wienn</title>
      </titleStmt>
      <publicationStmt>
        <idno> abc_mw </idno>
      </publicationStmt>
    </fileDesc>
  </teiHeader>
  <text>
    <body>
      <pb xml:id="abc_mw_a1" n="I"/>
      <p>Vorred an den Leser</p>
      <pb xml:id="abc_mw_b1" n="1"/>
      <p>Der Erste Theil</p>
      <pb/>
      <pb xml:id="abc_mw_b2" n="2"/>
    </body>
  </text>
</TEI>`

// TestParseEdition verifies that work identifier, title, and anchors are
// extracted from a namespaced TEI document.
func TestParseEdition(t *testing.T) {
	ed, err := ParseEdition("abc_mw.xml", "data/editions/abc_mw.xml", []byte(editionSample))
	if err != nil {
		t.Fatalf("ParseEdition failed: %v", err)
	}

	if ed.File != "abc_mw.xml" {
		t.Errorf("File = %q, want %q", ed.File, "abc_mw.xml")
	}
	if ed.Path != "data/editions/abc_mw.xml" {
		t.Errorf("Path = %q, want %q", ed.Path, "data/editions/abc_mw.xml")
	}
	if ed.WorkID != "abc_mw" {
		t.Errorf("WorkID = %q, want %q (surrounding space trimmed)", ed.WorkID, "abc_mw")
	}
	if ed.Title != "Mercks Wienn" {
		t.Errorf("Title = %q, want %q (whitespace collapsed)", ed.Title, "Mercks Wienn")
	}
	if ed.Doc == nil {
		t.Error("Doc is nil, want parsed document retained")
	}
}

// TestParseEditionAnchors verifies anchor extraction: document order, the
// printed page label, and positions from a single running counter that only
// counts elements carrying an identifier.
func TestParseEditionAnchors(t *testing.T) {
	ed, err := ParseEdition("abc_mw.xml", "abc_mw.xml", []byte(editionSample))
	if err != nil {
		t.Fatalf("ParseEdition failed: %v", err)
	}

	want := []Anchor{
		{ID: "abc_mw_a1", N: "I", Position: 1},
		{ID: "abc_mw_b1", N: "1", Position: 2},
		{ID: "abc_mw_b2", N: "2", Position: 3},
	}
	if len(ed.Anchors) != len(want) {
		t.Fatalf("len(Anchors) = %d, want %d", len(ed.Anchors), len(want))
	}
	for i, w := range want {
		if ed.Anchors[i] != w {
			t.Errorf("Anchors[%d] = %+v, want %+v", i, ed.Anchors[i], w)
		}
	}
}

// TestParseEditionMissingWorkID verifies that a document without a usable
// work identifier is rejected.
func TestParseEditionMissingWorkID(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no idno element",
			doc:  `<TEI><teiHeader><fileDesc><publicationStmt><p>no id</p></publicationStmt></fileDesc></teiHeader></TEI>`,
		},
		{
			name: "blank idno",
			doc:  `<TEI><teiHeader><fileDesc><publicationStmt><idno>   </idno></publicationStmt></fileDesc></teiHeader></TEI>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEdition("x.xml", "x.xml", []byte(tt.doc))
			if err == nil {
				t.Fatal("ParseEdition succeeded, want error")
			}
			var parseErr *errors.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T, want *errors.ParseError", err)
			}
			if !strings.Contains(err.Error(), "work identifier") {
				t.Errorf("error %q does not mention the work identifier", err)
			}
		})
	}
}

// TestParseEditionMalformed verifies that non-well-formed input is rejected.
func TestParseEditionMalformed(t *testing.T) {
	_, err := ParseEdition("x.xml", "x.xml", []byte(`<TEI><teiHeader>`))
	if err == nil {
		t.Fatal("ParseEdition succeeded on malformed input, want error")
	}
}

// TestParseEditionNoAnchors verifies that an edition without page breaks
// parses cleanly with an empty anchor list.
func TestParseEditionNoAnchors(t *testing.T) {
	doc := `<TEI>
	  <teiHeader><fileDesc><publicationStmt><idno>abc_empty</idno></publicationStmt></fileDesc></teiHeader>
	  <text><body><p>only prose</p></body></text>
	</TEI>`

	ed, err := ParseEdition("abc_empty.xml", "abc_empty.xml", []byte(doc))
	if err != nil {
		t.Fatalf("ParseEdition failed: %v", err)
	}
	if len(ed.Anchors) != 0 {
		t.Errorf("len(Anchors) = %d, want 0", len(ed.Anchors))
	}
	if ed.Title != "" {
		t.Errorf("Title = %q, want empty when the header carries none", ed.Title)
	}
}

// TestParseEditionWithoutNamespace verifies that older unnamespaced corpus
// documents are handled the same way as namespaced ones.
func TestParseEditionWithoutNamespace(t *testing.T) {
	doc := `<TEI>
	  <teiHeader><fileDesc>
	    <titleStmt><title>Todten-Capelle</title></titleStmt>
	    <publicationStmt><idno>abc_tk</idno></publicationStmt>
	  </fileDesc></teiHeader>
	  <text><body>
	    <pb xml:id="abc_tk_b1" n="1"/>
	    <pb xml:id="abc_tk_b2" n="2"/>
	  </body></text>
	</TEI>`

	ed, err := ParseEdition("abc_tk.xml", "abc_tk.xml", []byte(doc))
	if err != nil {
		t.Fatalf("ParseEdition failed: %v", err)
	}
	if ed.WorkID != "abc_tk" {
		t.Errorf("WorkID = %q, want %q", ed.WorkID, "abc_tk")
	}
	if len(ed.Anchors) != 2 {
		t.Fatalf("len(Anchors) = %d, want 2", len(ed.Anchors))
	}
	if ed.Anchors[1].Position != 2 {
		t.Errorf("Anchors[1].Position = %d, want 2", ed.Anchors[1].Position)
	}
}
