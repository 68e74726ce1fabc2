package main

import (
	"fmt"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/snapshot"
)

// SnapshotGroup contains corpus snapshot operations.
type SnapshotGroup struct {
	Create SnapshotCreateCmd `cmd:"" help:"Create a snapshot archive of the corpus"`
	Verify SnapshotVerifyCmd `cmd:"" help:"Verify a snapshot archive against its manifest"`
}

// SnapshotCreateCmd archives the corpus together with a hash manifest.
type SnapshotCreateCmd struct {
	Dir  string `arg:"" help:"Corpus directory" type:"existingdir"`
	Out  string `required:"" help:"Output archive path (.tar.xz or .tar.gz)" type:"path"`
	Glob string `help:"File name pattern for edition documents"`
}

func (c *SnapshotCreateCmd) Run(cfg *config.Config) error {
	manifest, err := snapshot.Create(c.Dir, orConfig(c.Glob, cfg.Corpus.Glob), c.Out, version)
	if err != nil {
		return err
	}

	fmt.Printf("Created: %s\n", c.Out)
	fmt.Printf("  Snapshot ID: %s\n", manifest.SnapshotID)
	fmt.Printf("  Documents:   %d\n", len(manifest.Documents))
	return nil
}

// SnapshotVerifyCmd re-hashes every archive entry against the manifest.
type SnapshotVerifyCmd struct {
	Path string `arg:"" help:"Snapshot archive path" type:"existingfile"`
}

func (c *SnapshotVerifyCmd) Run() error {
	report, err := snapshot.Verify(c.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot: %s\n", report.Manifest.SnapshotID)
	errors := 0
	for _, entry := range report.Entries {
		if entry.OK {
			fmt.Printf("  [OK] %s (%d bytes)\n", entry.Name, entry.Size)
		} else {
			fmt.Printf("  [FAIL] %s: %s\n", entry.Name, entry.Reason)
			errors++
		}
	}
	for _, name := range report.Extra {
		fmt.Printf("  [FAIL] %s: not in manifest\n", name)
		errors++
	}

	if errors > 0 {
		return fmt.Errorf("verification failed: %d error(s)", errors)
	}
	fmt.Println("Verification passed!")
	return nil
}
