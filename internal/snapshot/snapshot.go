// Package snapshot creates and verifies corpus snapshot archives. A
// snapshot is a tar archive of edition documents plus a MANIFEST.json
// recording a snapshot id, creation time, tool version and both content
// digests for every document, so an archive can be checked end to end
// long after it was written.
package snapshot

import (
	"archive/tar"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/core/hashing"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/archive"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
)

// ManifestName is the name of the manifest entry inside a snapshot archive.
// It is written as the first entry so streaming readers see it before any
// document data.
const ManifestName = "MANIFEST.json"

// Document records one archived edition with its integrity digests.
type Document struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	hashing.Digest
}

// Manifest describes the contents of one snapshot archive.
type Manifest struct {
	SnapshotID  string     `json:"snapshot_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ToolVersion string     `json:"tool_version"`
	Documents   []Document `json:"documents"`
}

// Create archives every file under srcDir matching glob into outPath
// together with a generated manifest. Documents are written sorted by name
// after the manifest, and all entries share the snapshot's creation time,
// so creating twice from unchanged input differs only in id and timestamp.
func Create(srcDir, glob, outPath, toolVersion string) (*Manifest, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, errors.NewIO("read", srcDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(glob, entry.Name())
		if err != nil {
			return nil, errors.NewValidation("glob", err.Error())
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, &errors.NotFoundError{Resource: "snapshot documents", ID: srcDir}
	}

	manifest := &Manifest{
		SnapshotID:  uuid.NewString(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		ToolVersion: toolVersion,
	}
	bodies := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(srcDir, name))
		if err != nil {
			return nil, errors.NewIO("read", filepath.Join(srcDir, name), err)
		}
		manifest.Documents = append(manifest.Documents, Document{
			Name:   name,
			Size:   int64(len(data)),
			Digest: hashing.Sum(data),
		})
		bodies[name] = data
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}

	w, err := archive.NewWriter(outPath)
	if err != nil {
		return nil, errors.NewIO("create", outPath, err)
	}
	if err := w.AddFile(ManifestName, manifestJSON, manifest.CreatedAt); err != nil {
		w.Close()
		return nil, errors.NewIO("write", outPath, err)
	}
	for _, doc := range manifest.Documents {
		if err := w.AddFile(doc.Name, bodies[doc.Name], manifest.CreatedAt); err != nil {
			w.Close()
			return nil, errors.NewIO("write", outPath, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewIO("close", outPath, err)
	}

	logging.SnapshotEvent("created", manifest.SnapshotID, len(manifest.Documents),
		"path", outPath)
	return manifest, nil
}

// EntryStatus is the verification outcome for one manifest document.
type EntryStatus struct {
	Name   string
	Size   int64
	OK     bool
	Reason string
}

// Report is the outcome of verifying one snapshot archive. Entries follow
// manifest order; Extra lists archive entries the manifest does not know,
// sorted by name.
type Report struct {
	Manifest *Manifest
	Entries  []EntryStatus
	Extra    []string
}

// Failures counts failed entries plus entries the manifest does not cover.
func (r *Report) Failures() int {
	n := len(r.Extra)
	for _, e := range r.Entries {
		if !e.OK {
			n++
		}
	}
	return n
}

// Verify reads a snapshot archive, recomputes both digests for every
// document and compares them against the manifest. It returns a report
// rather than failing on the first mismatch; an error means the archive
// itself could not be read or carries no usable manifest.
func Verify(path string) (*Report, error) {
	contents := make(map[string][]byte)
	visitor := func(header *tar.Header, r io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return false, errors.NewIO("read", header.Name, err)
		}
		contents[header.Name] = data
		return false, nil
	}
	if err := archive.IterateArchive(path, visitor); err != nil {
		return nil, err
	}

	manifestJSON, ok := contents[ManifestName]
	if !ok {
		return nil, errors.NewParse("snapshot", path, "missing "+ManifestName)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
		return nil, &errors.ParseError{
			Format:  "snapshot",
			Path:    path,
			Message: "invalid " + ManifestName,
			Err:     err,
		}
	}

	report := &Report{Manifest: &manifest}
	known := map[string]bool{ManifestName: true}
	for _, doc := range manifest.Documents {
		known[doc.Name] = true
		data, ok := contents[doc.Name]
		if !ok {
			report.Entries = append(report.Entries, EntryStatus{
				Name:   doc.Name,
				OK:     false,
				Reason: "missing from archive",
			})
			continue
		}
		status := EntryStatus{Name: doc.Name, Size: int64(len(data))}
		got := hashing.Sum(data)
		switch {
		case int64(len(data)) != doc.Size:
			status.Reason = "size mismatch"
		case got.SHA256 != doc.SHA256:
			status.Reason = "sha256 mismatch"
		case got.BLAKE3 != doc.BLAKE3:
			status.Reason = "blake3 mismatch"
		default:
			status.OK = true
		}
		report.Entries = append(report.Entries, status)
	}

	for name := range contents {
		if !known[name] {
			report.Extra = append(report.Extra, name)
		}
	}
	sort.Strings(report.Extra)

	logging.SnapshotEvent("verified", manifest.SnapshotID, len(manifest.Documents),
		"failures", report.Failures())
	return report, nil
}
