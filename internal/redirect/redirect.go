// Package redirect turns an edition collection into the old-to-new URL
// mapping tables consumed by the corpus host's redirect layer. Two output
// modes exist: concOutput emits one row per page-break anchor, ruleOutput
// compresses each anchor group into a single range rule.
package redirect

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/corpus"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/tei"
)

// Mode selects the table layout.
type Mode string

const (
	// ModeConc emits one tab-separated row per anchor.
	ModeConc Mode = "concOutput"
	// ModeRule emits one range rule per anchor group.
	ModeRule Mode = "ruleOutput"
)

// ParseMode validates a mode selector. Only the two recognized values are
// accepted; anything else aborts the run before any output.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeConc, ModeRule:
		return Mode(s), nil
	}
	return "", errors.NewValidation("output-mode", fmt.Sprintf("must be concOutput or ruleOutput, got %q", s))
}

// ErrorMarker is written in place of a heading that could not be fetched.
const ErrorMarker = "ERROR"

// searchPrefix is the new site's query path for a page anchor.
const searchPrefix = "suche?seite="

// HeadingFetcher resolves the heading text of a page fragment URL. A nil
// fetcher or a returned error yields the ErrorMarker in the output.
type HeadingFetcher interface {
	Heading(url string) (string, error)
}

// Options configure a Generator.
type Options struct {
	Mode       Mode
	BaseURLOld string
	BaseURLNew string
	// Debug appends the diagnostic columns to concOutput rows.
	Debug bool
	// TocDir locates per-work table-of-contents documents for the debug
	// display-term column.
	TocDir string
	// Fetcher supplies debug headings. Unused outside debug mode.
	Fetcher HeadingFetcher
}

// Generator writes redirect tables.
type Generator struct {
	opts Options
}

// NewGenerator returns a Generator for the given options.
func NewGenerator(opts Options) *Generator {
	if opts.Mode == "" {
		opts.Mode = ModeConc
	}
	return &Generator{opts: opts}
}

// Write emits the table for the whole collection. Rows appear per edition in
// collection order, per anchor in document order. The output depends only on
// the collection and the options, so repeated runs over unchanged input are
// byte-identical.
func (g *Generator) Write(w io.Writer, col *corpus.Collection) error {
	bw := bufio.NewWriter(w)
	for _, ed := range col.Editions {
		var err error
		switch g.opts.Mode {
		case ModeRule:
			err = g.writeRules(bw, ed)
		default:
			err = g.writeRows(bw, ed)
		}
		if err != nil {
			return errors.NewIO("write", "redirect table", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "redirect table", err)
	}
	return nil
}

// writeRows emits the concOutput rows of one edition.
func (g *Generator) writeRows(w io.Writer, ed *tei.Edition) error {
	var toc *tei.Toc
	if g.opts.Debug {
		toc = tei.LoadWork(g.opts.TocDir, ed.WorkID)
		logging.Debug("toc loaded", "work_id", ed.WorkID, "entries", toc.Len())
	}

	for _, a := range ed.Anchors {
		fragment := ed.WorkID + "_" + strconv.Itoa(a.Position)
		oldURL := g.opts.BaseURLOld + fragment
		newURL := g.opts.BaseURLNew + searchPrefix + a.ID

		if !g.opts.Debug {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", oldURL, newURL); err != nil {
				return err
			}
			continue
		}

		pageURL := g.opts.BaseURLNew + fragment + ".html"
		term := toc.Term(fragment)
		heading := g.heading(pageURL)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", oldURL, newURL, pageURL, term, heading); err != nil {
			return err
		}
	}
	return nil
}

// heading fetches the heading text for a page URL. Every failure collapses
// to the literal marker; diagnostics never abort a run.
func (g *Generator) heading(url string) string {
	if g.opts.Fetcher == nil {
		return ErrorMarker
	}
	h, err := g.opts.Fetcher.Heading(url)
	if err != nil {
		logging.FetchFailed(url, err)
		return ErrorMarker
	}
	return h
}
