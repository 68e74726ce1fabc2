package register

import (
	"bytes"
	"embed"
	stdxml "encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Output document names under the render directory.
const (
	PersonsFile = "abc_register_persons.xml"
	PlacesFile  = "abc_register_places.xml"
)

var templateFuncs = template.FuncMap{
	"xml": escapeXML,
	"plural": func(n int) string {
		if n == 1 {
			return "mention"
		}
		return "mentions"
	},
}

// templateEntity is one record as seen by the templates.
type templateEntity struct {
	Entity
	Slug string
}

type templateData struct {
	RunID       string
	GeneratedAt string
	Entities    []templateEntity
}

// Render writes the persons and places XML index documents under outDir.
// A file of the same name in templateDir overrides the embedded template.
func Render(reg *Register, templateDir, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.NewIO("create", outDir, err)
	}

	targets := []struct {
		tmplName string
		outName  string
		entities []Entity
	}{
		{tmplName: "persons.xml.tmpl", outName: PersonsFile, entities: reg.Persons},
		{tmplName: "places.xml.tmpl", outName: PlacesFile, entities: reg.Places},
	}

	for _, target := range targets {
		tmpl, err := loadTemplate(templateDir, target.tmplName)
		if err != nil {
			return err
		}

		data := templateData{
			RunID:       reg.RunID,
			GeneratedAt: reg.GeneratedAt.Format(time.RFC3339),
			Entities:    viewEntities(target.entities),
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return errors.Wrapf(err, "render %s", target.outName)
		}

		path := filepath.Join(outDir, target.outName)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return errors.NewIO("write", path, err)
		}
		logging.Info("register rendered", "path", path, "records", len(target.entities))
	}
	return nil
}

func loadTemplate(templateDir, name string) (*template.Template, error) {
	if templateDir != "" {
		override := filepath.Join(templateDir, name)
		if _, err := os.Stat(override); err == nil {
			tmpl, err := template.New(name).Funcs(templateFuncs).ParseFiles(override)
			if err != nil {
				return nil, errors.NewParse("template", override, err.Error())
			}
			return tmpl, nil
		}
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, errors.NewParse("template", name, err.Error())
	}
	return tmpl, nil
}

func viewEntities(entities []Entity) []templateEntity {
	out := make([]templateEntity, 0, len(entities))
	for _, e := range entities {
		out = append(out, templateEntity{Entity: e, Slug: Slugify(e.Key)})
	}
	return out
}

// Slugify lowercases a key and joins its letter and digit runs with single
// hyphens, e.g. "Abraham_a_Sancta_Clara" becomes "abraham-a-sancta-clara".
func Slugify(key string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToLower(key) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if sb.Len() > 0 {
				pending = true
			}
			continue
		}
		if pending {
			sb.WriteByte('-')
			pending = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func escapeXML(s string) string {
	var sb strings.Builder
	if err := stdxml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
