package redirect

import (
	"fmt"
	"io"
	"strings"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/tei"
)

// anchorGroup accumulates the anchors sharing one part prefix. Only the
// first and last member matter for the emitted rule.
type anchorGroup struct {
	prefix string
	first  tei.Anchor
	last   tei.Anchor
}

// groupAnchors partitions anchors by part prefix in a single pass. Groups
// keep first-appearance order, and within a group first/last reflect
// occurrence order, not numeric order.
func groupAnchors(anchors []tei.Anchor) []*anchorGroup {
	var order []*anchorGroup
	byPrefix := make(map[string]*anchorGroup)

	for _, a := range anchors {
		prefix, _ := splitSuffix(idSuffix(a.ID))
		g, ok := byPrefix[prefix]
		if !ok {
			g = &anchorGroup{prefix: prefix, first: a}
			byPrefix[prefix] = g
			order = append(order, g)
		}
		g.last = a
	}
	return order
}

// idSuffix returns the part of an anchor id after the work prefix, i.e.
// everything past the first underscore.
func idSuffix(id string) string {
	if i := strings.Index(id, "_"); i >= 0 {
		return id[i+1:]
	}
	return ""
}

// splitSuffix separates an id suffix into its non-digit part prefix and its
// numeric tail, e.g. "b12" into "b" and "12".
func splitSuffix(suffix string) (prefix, digits string) {
	var p, d strings.Builder
	for _, r := range suffix {
		if isDigit(r) {
			d.WriteRune(r)
		} else {
			p.WriteRune(r)
		}
	}
	return p.String(), d.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// writeRules emits one range rule per anchor group of one edition.
func (g *Generator) writeRules(w io.Writer, ed *tei.Edition) error {
	for _, grp := range groupAnchors(ed.Anchors) {
		_, firstNo := splitSuffix(idSuffix(grp.first.ID))
		_, lastNo := splitSuffix(idSuffix(grp.last.ID))

		oldURL := fmt.Sprintf("%s%s_[%d-%d]", g.opts.BaseURLOld, ed.WorkID, grp.first.Position, grp.last.Position)
		newURL := fmt.Sprintf("%s%s%s_%s[%s-%s]", g.opts.BaseURLNew, searchPrefix, ed.WorkID, grp.prefix, firstNo, lastNo)

		_, err := fmt.Fprintf(w, "<from position=\"%d\" id=\"%s\">%s</from> -> <to position=\"%d\" id=\"%s\">%s</to>\n",
			grp.first.Position, grp.first.ID, oldURL,
			grp.last.Position, grp.last.ID, newURL)
		if err != nil {
			return err
		}
	}
	return nil
}
