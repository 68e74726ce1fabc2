// Package register builds the persons and places registers of the corpus:
// per-entity mention counts aggregated over all editions, keyed by the key
// attribute of persName and placeName elements.
package register

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/core/xml"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/corpus"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
)

// FileCount is the mention count of one entity in one edition file.
type FileCount struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Entity is one aggregated register record.
type Entity struct {
	Key   string `json:"key"`
	Lemma string `json:"lemma"`
	// Variations holds the distinct surface forms, sorted.
	Variations []string `json:"variations"`
	Total      int      `json:"TOTAL"`
	// Files holds the nonzero per-file counts in collection order.
	Files []FileCount `json:"files"`
}

// Register is one complete register build.
type Register struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Persons     []Entity  `json:"persons"`
	Places      []Entity  `json:"places"`
}

// Build aggregates persName and placeName mentions across the collection.
func Build(col *corpus.Collection) (*Register, error) {
	persons, err := count(col, "persName")
	if err != nil {
		return nil, err
	}
	places, err := count(col, "placeName")
	if err != nil {
		return nil, err
	}

	reg := &Register{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Persons:     persons,
		Places:      places,
	}
	logging.Info("register built",
		"run_id", reg.RunID,
		"persons", len(reg.Persons),
		"places", len(reg.Places))
	return reg, nil
}

// accumulator collects the raw per-key state during the corpus walk.
type accumulator struct {
	key        string
	lemma      string
	variations map[string]bool
	counts     map[string]int
}

// wordPath selects the tokenized words inside a name element.
const wordPath = ".//*[local-name()='w']"

// count walks every edition and aggregates the occurrences of one element
// name by key. Editions are visited in collection order, occurrences in
// document order, so the first non-empty lemma of a key is deterministic.
func count(col *corpus.Collection, element string) ([]Entity, error) {
	byKey := make(map[string]*accumulator)
	var order []*accumulator

	for _, ed := range col.Editions {
		nodes, err := ed.Doc.XPath(xml.Path(element))
		if err != nil {
			return nil, &errors.ParseError{Format: "tei", Path: ed.Path, Message: element + " query", Err: err}
		}

		for _, node := range nodes {
			key := nfc(strings.TrimSpace(node.Attr("key")))
			if key == "" {
				continue
			}

			a, ok := byKey[key]
			if !ok {
				a = &accumulator{
					key:        key,
					variations: make(map[string]bool),
					counts:     make(map[string]int),
				}
				byKey[key] = a
				order = append(order, a)
			}
			a.counts[ed.File]++

			words, err := node.XPath(wordPath)
			if err != nil {
				return nil, &errors.ParseError{Format: "tei", Path: ed.Path, Message: "word query", Err: err}
			}
			var lemmas, texts []string
			for _, w := range words {
				if l := strings.TrimSpace(w.Attr("lemma")); l != "" {
					lemmas = append(lemmas, l)
				}
				if t := w.CollapsedText(); t != "" {
					texts = append(texts, t)
				}
			}

			if surface := nfc(strings.Join(texts, " ")); surface != "" {
				a.variations[surface] = true
			}
			if a.lemma == "" {
				lemma := strings.Join(lemmas, " ")
				if lemma == "" {
					lemma = strings.Join(texts, " ")
				}
				a.lemma = nfc(xml.CollapseSpace(lemma))
			}
		}
	}

	entities := make([]Entity, 0, len(order))
	for _, a := range order {
		entities = append(entities, finalize(a, col))
	}
	sortEntities(entities)
	return entities, nil
}

// finalize turns an accumulator into its record: sorted variations, the
// total, and the nonzero per-file counts in collection order.
func finalize(a *accumulator, col *corpus.Collection) Entity {
	variations := make([]string, 0, len(a.variations))
	for v := range a.variations {
		variations = append(variations, v)
	}
	sort.Strings(variations)

	total := 0
	var files []FileCount
	for _, ed := range col.Editions {
		if n := a.counts[ed.File]; n > 0 {
			files = append(files, FileCount{File: ed.File, Count: n})
			total += n
		}
	}

	return Entity{
		Key:        a.key,
		Lemma:      a.lemma,
		Variations: variations,
		Total:      total,
		Files:      files,
	}
}

// sortEntities orders records by total descending, then lemma, then key.
func sortEntities(entities []Entity) {
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Total != entities[j].Total {
			return entities[i].Total > entities[j].Total
		}
		if entities[i].Lemma != entities[j].Lemma {
			return entities[i].Lemma < entities[j].Lemma
		}
		return entities[i].Key < entities[j].Key
	})
}

// nfc normalizes a string to Unicode NFC. The corpus mixes precomposed and
// combining forms for the same historic glyphs.
func nfc(s string) string {
	return norm.NFC.String(s)
}

// WriteJSON writes the register as indented JSON.
func (r *Register) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.NewIO("write", "register", err)
	}
	return nil
}

// ReadJSON parses a register document produced by WriteJSON.
func ReadJSON(r io.Reader) (*Register, error) {
	var reg Register
	if err := json.NewDecoder(r).Decode(&reg); err != nil {
		return nil, errors.NewParse("json", "register", err.Error())
	}
	return &reg, nil
}
