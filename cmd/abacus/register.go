package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/corpus"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/register"
)

// registerFile is the default name of the register JSON artifact.
const registerFile = "register.json"

// RegisterGroup contains persons/places register operations.
type RegisterGroup struct {
	Build  RegisterBuildCmd  `cmd:"" help:"Build the register from the corpus"`
	Render RegisterRenderCmd `cmd:"" help:"Render register XML index documents"`
	Query  RegisterQueryCmd  `cmd:"" help:"Look up one register entity"`
}

// RegisterBuildCmd counts person and place mentions across the corpus.
type RegisterBuildCmd struct {
	PathToDocs string `name:"path-to-docs" help:"Edition documents directory or snapshot archive" type:"path"`
	Glob       string `help:"File name pattern for edition documents"`
	Out        string `help:"Output JSON path" type:"path"`
	DB         string `name:"db" help:"Also save the register into this SQLite database" type:"path"`
}

func (c *RegisterBuildCmd) Run(cfg *config.Config) error {
	col, err := corpus.Load(
		orConfig(c.PathToDocs, cfg.Corpus.PathToDocs),
		orConfig(c.Glob, cfg.Corpus.Glob),
	)
	if err != nil {
		return err
	}

	reg, err := register.Build(col)
	if err != nil {
		return err
	}

	out := orConfig(c.Out, filepath.Join(cfg.Register.OutDir, registerFile))
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIO("create", dir, err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.NewIO("create", out, err)
	}
	if err := reg.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", out, err)
	}

	fmt.Printf("Created: %s\n", out)
	fmt.Printf("  Run ID:  %s\n", reg.RunID)
	fmt.Printf("  Persons: %d\n", len(reg.Persons))
	fmt.Printf("  Places:  %d\n", len(reg.Places))

	if db := orConfig(c.DB, cfg.Register.DBPath); db != "" {
		store, err := register.OpenStore(db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(reg); err != nil {
			return err
		}
		fmt.Printf("Saved: %s\n", db)
	}
	return nil
}

// RegisterRenderCmd renders the register JSON into XML index documents.
type RegisterRenderCmd struct {
	In        string `arg:"" help:"Register JSON path" type:"existingfile"`
	OutDir    string `name:"out-dir" help:"Output directory for the XML index documents" type:"path"`
	Templates string `help:"Template directory overriding the embedded templates" type:"path"`
}

func (c *RegisterRenderCmd) Run(cfg *config.Config) error {
	f, err := os.Open(c.In)
	if err != nil {
		return errors.NewIO("open", c.In, err)
	}
	defer f.Close()

	reg, err := register.ReadJSON(f)
	if err != nil {
		return err
	}

	outDir := orConfig(c.OutDir, cfg.Register.OutDir)
	templates := orConfig(c.Templates, cfg.Register.TemplateDir)
	if err := register.Render(reg, templates, outDir); err != nil {
		return err
	}

	fmt.Printf("Created: %s\n", filepath.Join(outDir, register.PersonsFile))
	fmt.Printf("Created: %s\n", filepath.Join(outDir, register.PlacesFile))
	return nil
}

// RegisterQueryCmd reads one entity with its mention counts back from the
// register database. Persons are searched first, then places.
type RegisterQueryCmd struct {
	Key string `arg:"" help:"Entity key to look up"`
	DB  string `name:"db" help:"SQLite database path" type:"path"`
}

func (c *RegisterQueryCmd) Run(cfg *config.Config) error {
	db := orConfig(c.DB, cfg.Register.DBPath)
	if db == "" {
		return errors.NewValidation("db", "required (flag or config file)")
	}

	store, err := register.OpenStore(db)
	if err != nil {
		return err
	}
	defer store.Close()

	kind := register.KindPerson
	entity, err := store.Entity(kind, c.Key)
	if err != nil {
		var notFound *errors.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		kind = register.KindPlace
		entity, err = store.Entity(kind, c.Key)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%s: %s\n", kind, entity.Key)
	fmt.Printf("  Lemma:    %s\n", entity.Lemma)
	fmt.Printf("  Mentions: %d\n", entity.Total)
	if len(entity.Variations) > 0 {
		fmt.Printf("  Variants: %s\n", strings.Join(entity.Variations, ", "))
	}
	fmt.Println("  Files:")
	for _, fc := range entity.Files {
		fmt.Printf("    %s (%d)\n", fc.File, fc.Count)
	}
	return nil
}
