package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/corpus"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/tei"
)

// CorpusGroup contains edition collection inspection operations.
type CorpusGroup struct {
	List CorpusListCmd `cmd:"" help:"List editions with their page-anchor counts"`
}

// CorpusListCmd prints one table row per edition in the collection.
type CorpusListCmd struct {
	PathToDocs string `name:"path-to-docs" help:"Edition documents directory or snapshot archive" type:"path"`
	Glob       string `help:"File name pattern for edition documents"`
	TocDir     string `name:"toc-dir" help:"Directory of per-work table-of-contents documents" type:"path"`
}

func (c *CorpusListCmd) Run(cfg *config.Config) error {
	col, err := corpus.Load(
		orConfig(c.PathToDocs, cfg.Corpus.PathToDocs),
		orConfig(c.Glob, cfg.Corpus.Glob),
	)
	if err != nil {
		return err
	}
	tocDir := orConfig(c.TocDir, cfg.Corpus.TocDir)

	rows := make([][]string, 0, len(col.Editions))
	for _, ed := range col.Editions {
		hasToc := "no"
		if _, err := os.Stat(tei.TocPath(tocDir, ed.WorkID)); err == nil {
			hasToc = "yes"
		}
		rows = append(rows, []string{
			ed.WorkID,
			ed.File,
			ed.Title,
			strconv.Itoa(len(ed.Anchors)),
			hasToc,
		})
	}

	fmt.Println(renderTable(
		[]string{"Work", "File", "Title", "Pages", "ToC"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		stdoutIsTerminal(),
	))
	fmt.Printf("%d edition(s), %d anchor(s)\n", len(col.Editions), col.Anchors())
	return nil
}
