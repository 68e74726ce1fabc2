// Package corpus loads TEI edition collections from a directory or a
// snapshot archive. Editions come back in lexicographic file order so that
// every downstream table is deterministic.
package corpus

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/archive"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/tei"
)

// DefaultGlob matches the edition documents of the corpus layout.
const DefaultGlob = "*.xml"

// Collection is an ordered set of parsed editions from one source.
type Collection struct {
	// Source is the directory or archive the collection was read from.
	Source string
	// Editions holds the parsed documents in lexicographic file order.
	Editions []*tei.Edition
}

// Anchors reports the total anchor count across all editions.
func (c *Collection) Anchors() int {
	total := 0
	for _, ed := range c.Editions {
		total += len(ed.Anchors)
	}
	return total
}

// Load reads a collection from path, which is either a directory of edition
// documents or a .tar.xz / .tar.gz snapshot archive. Any load failure is
// fatal for the run; callers produce no output on error.
func Load(path, glob string) (*Collection, error) {
	if glob == "" {
		glob = DefaultGlob
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if info.IsDir() {
		return LoadDir(path, glob)
	}
	if archive.IsSupportedFormat(path) {
		return LoadArchive(path, glob)
	}
	return nil, errors.NewValidation("path", "not a directory or corpus archive: "+path)
}

// LoadDir reads every file under dir whose base name matches glob.
// os.ReadDir already yields entries sorted by name.
func LoadDir(dir, glob string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIO("read", dir, err)
	}

	col := &Collection{Source: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(glob, entry.Name())
		if err != nil {
			return nil, errors.NewValidation("glob", err.Error())
		}
		if !matched {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		ed, err := tei.ParseEdition(entry.Name(), path, data)
		if err != nil {
			return nil, err
		}
		logging.DocumentLoaded(ed.File, ed.WorkID, len(ed.Anchors))
		col.Editions = append(col.Editions, ed)
	}

	if len(col.Editions) == 0 {
		return nil, &errors.NotFoundError{Resource: "edition documents", ID: dir}
	}
	return col, nil
}

// LoadArchive reads a collection out of a snapshot archive. Tar streams
// carry no order guarantee, so matching entries are buffered and sorted by
// name before parsing.
func LoadArchive(path, glob string) (*Collection, error) {
	bodies := make(map[string][]byte)
	err := archive.IterateArchive(path, func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}
		matched, err := filepath.Match(glob, filepath.Base(header.Name))
		if err != nil {
			return true, errors.NewValidation("glob", err.Error())
		}
		if !matched {
			return false, nil
		}
		data, err := io.ReadAll(content)
		if err != nil {
			return true, errors.NewIO("read", path+":"+header.Name, err)
		}
		bodies[header.Name] = data
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)

	col := &Collection{Source: path}
	for _, name := range names {
		ed, err := tei.ParseEdition(filepath.Base(name), path+":"+name, bodies[name])
		if err != nil {
			return nil, err
		}
		logging.DocumentLoaded(ed.File, ed.WorkID, len(ed.Anchors))
		col.Editions = append(col.Editions, ed)
	}

	if len(col.Editions) == 0 {
		return nil, &errors.NotFoundError{Resource: "edition documents", ID: path}
	}
	return col, nil
}
