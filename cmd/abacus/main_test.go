package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/register"
)

// Test helper functions

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
}

// createTestCorpus writes one edition with work ID "abc" and two page
// anchors into a fresh directory.
func createTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCorpusFile(t, dir, "abc.xml", `<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader><fileDesc>
    <titleStmt><title>Mercks Wienn</title></titleStmt>
    <publicationStmt><idno>abc</idno></publicationStmt>
  </fileDesc></teiHeader>
  <text><body>
    <pb xml:id="abc_a1" n="1"/>
    <p><persName key="augustinus"><w lemma="Augustinus">Augustini</w></persName></p>
    <pb xml:id="abc_a2" n="2"/>
    <p><placeName key="wien"><w lemma="Wien">Wienn</w></placeName></p>
  </body></text>
</TEI>`)
	return dir
}

// Tests for GenerateCmd

func TestGenerateCmd_Run(t *testing.T) {
	tests := []struct {
		name       string
		outputMode string
		baseURLOld string
		baseURLNew string
		wantErr    bool
		wantLines  []string
	}{
		{
			name:       "concOutput table",
			outputMode: "concOutput",
			baseURLOld: "http://old/",
			baseURLNew: "http://new/",
			wantLines: []string{
				"http://old/abc_1\thttp://new/suche?seite=abc_a1",
				"http://old/abc_2\thttp://new/suche?seite=abc_a2",
			},
		},
		{
			name:       "ruleOutput table",
			outputMode: "ruleOutput",
			baseURLOld: "http://old/",
			baseURLNew: "http://new/",
			wantLines: []string{
				`<from position="1" id="abc_a1">http://old/abc_[1-2]</from> -> <to position="2" id="abc_a2">http://new/suche?seite=abc_a[1-2]</to>`,
			},
		},
		{
			name:       "unknown output mode",
			outputMode: "htaccess",
			baseURLOld: "http://old/",
			baseURLNew: "http://new/",
			wantErr:    true,
		},
		{
			name:       "missing old base URL",
			outputMode: "concOutput",
			baseURLNew: "http://new/",
			wantErr:    true,
		},
		{
			name:       "missing new base URL",
			outputMode: "concOutput",
			baseURLOld: "http://old/",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := createTestCorpus(t)
			out := filepath.Join(t.TempDir(), "redirects.txt")

			cmd := &GenerateCmd{
				PathToDocs: docs,
				OutputMode: tt.outputMode,
				BaseURLOld: tt.baseURLOld,
				BaseURLNew: tt.baseURLNew,
				Out:        out,
			}
			err := cmd.Run(testConfig())

			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			got := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			if len(got) != len(tt.wantLines) {
				t.Fatalf("output has %d line(s), want %d:\n%s", len(got), len(tt.wantLines), data)
			}
			for i, want := range tt.wantLines {
				if got[i] != want {
					t.Errorf("line %d = %q, want %q", i+1, got[i], want)
				}
			}
		})
	}
}

func TestGenerateCmd_MissingCorpus(t *testing.T) {
	out := filepath.Join(t.TempDir(), "redirects.txt")
	cmd := &GenerateCmd{
		PathToDocs: filepath.Join(t.TempDir(), "absent"),
		BaseURLOld: "http://old/",
		BaseURLNew: "http://new/",
		Out:        out,
	}
	if err := cmd.Run(testConfig()); err == nil {
		t.Fatal("GenerateCmd.Run() succeeded with unreadable corpus path")
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("output file created despite fatal load error")
	}
}

// Tests for CorpusListCmd

func TestCorpusListCmd_Run(t *testing.T) {
	docs := createTestCorpus(t)
	cmd := &CorpusListCmd{PathToDocs: docs}
	if err := cmd.Run(testConfig()); err != nil {
		t.Fatalf("CorpusListCmd.Run() error = %v", err)
	}
}

// Tests for the register commands

func TestRegisterBuildCmd_Run(t *testing.T) {
	docs := createTestCorpus(t)
	out := filepath.Join(t.TempDir(), "register.json")

	cmd := &RegisterBuildCmd{PathToDocs: docs, Out: out}
	if err := cmd.Run(testConfig()); err != nil {
		t.Fatalf("RegisterBuildCmd.Run() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading register: %v", err)
	}
	var reg register.Register
	if err := json.Unmarshal(data, &reg); err != nil {
		t.Fatalf("register is not valid JSON: %v", err)
	}
	if len(reg.Persons) != 1 || reg.Persons[0].Key != "augustinus" {
		t.Errorf("persons = %+v, want one augustinus entry", reg.Persons)
	}
	if len(reg.Places) != 1 || reg.Places[0].Key != "wien" {
		t.Errorf("places = %+v, want one wien entry", reg.Places)
	}
}

func TestRegisterQueryCmd_Run(t *testing.T) {
	docs := createTestCorpus(t)
	tempDir := t.TempDir()
	out := filepath.Join(tempDir, "register.json")
	db := filepath.Join(tempDir, "register.db")

	build := &RegisterBuildCmd{PathToDocs: docs, Out: out, DB: db}
	if err := build.Run(testConfig()); err != nil {
		t.Fatalf("RegisterBuildCmd.Run() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "person key", key: "augustinus"},
		{name: "place key", key: "wien"},
		{name: "unknown key", key: "nobody", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &RegisterQueryCmd{Key: tt.key, DB: db}
			err := query.Run(testConfig())
			if (err != nil) != tt.wantErr {
				t.Errorf("RegisterQueryCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterQueryCmd_NoDatabase(t *testing.T) {
	query := &RegisterQueryCmd{Key: "augustinus"}
	cfg := testConfig()
	cfg.Register.DBPath = ""
	if err := query.Run(cfg); err == nil {
		t.Fatal("RegisterQueryCmd.Run() succeeded without a database path")
	}
}

func TestRegisterRenderCmd_Run(t *testing.T) {
	docs := createTestCorpus(t)
	tempDir := t.TempDir()
	out := filepath.Join(tempDir, "register.json")

	build := &RegisterBuildCmd{PathToDocs: docs, Out: out}
	if err := build.Run(testConfig()); err != nil {
		t.Fatalf("RegisterBuildCmd.Run() error = %v", err)
	}

	outDir := filepath.Join(tempDir, "index")
	render := &RegisterRenderCmd{In: out, OutDir: outDir}
	if err := render.Run(testConfig()); err != nil {
		t.Fatalf("RegisterRenderCmd.Run() error = %v", err)
	}

	for _, name := range []string{register.PersonsFile, register.PlacesFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("rendered document %s missing: %v", name, err)
		}
	}
}

// Tests for the snapshot commands

func TestSnapshotCmds_Run(t *testing.T) {
	docs := createTestCorpus(t)
	out := filepath.Join(t.TempDir(), "corpus.tar.gz")

	create := &SnapshotCreateCmd{Dir: docs, Out: out}
	if err := create.Run(testConfig()); err != nil {
		t.Fatalf("SnapshotCreateCmd.Run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("snapshot archive missing: %v", err)
	}

	verify := &SnapshotVerifyCmd{Path: out}
	if err := verify.Run(); err != nil {
		t.Fatalf("SnapshotVerifyCmd.Run() error = %v", err)
	}
}

func TestGenerateCmd_FromSnapshot(t *testing.T) {
	docs := createTestCorpus(t)
	archivePath := filepath.Join(t.TempDir(), "corpus.tar.gz")
	create := &SnapshotCreateCmd{Dir: docs, Out: archivePath}
	if err := create.Run(testConfig()); err != nil {
		t.Fatalf("SnapshotCreateCmd.Run() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "redirects.txt")
	cmd := &GenerateCmd{
		PathToDocs: archivePath,
		BaseURLOld: "http://old/",
		BaseURLNew: "http://new/",
		Out:        out,
	}
	if err := cmd.Run(testConfig()); err != nil {
		t.Fatalf("GenerateCmd.Run() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "http://old/abc_1\thttp://new/suche?seite=abc_a1") {
		t.Errorf("unexpected output:\n%s", data)
	}
}

// Tests for ConfigInitCmd

func TestConfigInitCmd_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cmd := &ConfigInitCmd{Path: path}
	if err := cmd.Run(); err != nil {
		t.Fatalf("ConfigInitCmd.Run() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if err := cmd.Run(); err == nil {
		t.Fatal("ConfigInitCmd.Run() overwrote an existing file without --force")
	}

	forced := &ConfigInitCmd{Path: path, Force: true}
	if err := forced.Run(); err != nil {
		t.Fatalf("ConfigInitCmd.Run() with force error = %v", err)
	}
}

// Tests for helpers

func TestVersionCmd_Run(t *testing.T) {
	cmd := &VersionCmd{}
	if err := cmd.Run(); err != nil {
		t.Fatalf("VersionCmd.Run() error = %v", err)
	}
}

func TestOrConfig(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		fallback string
		want     string
	}{
		{name: "flag wins", flag: "a", fallback: "b", want: "a"},
		{name: "fallback applies", flag: "", fallback: "b", want: "b"},
		{name: "both empty", flag: "", fallback: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orConfig(tt.flag, tt.fallback); got != tt.want {
				t.Errorf("orConfig(%q, %q) = %q, want %q", tt.flag, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	headers := []string{"Work", "Pages"}
	rows := [][]string{{"abc", "2"}}
	aligns := []columnAlignment{alignLeft, alignRight}

	plain := renderTable(headers, rows, aligns, false)
	if !strings.Contains(plain, "abc\t2") {
		t.Errorf("plain output not tab-separated:\n%s", plain)
	}

	styled := renderTable(headers, rows, aligns, true)
	if !strings.Contains(styled, "abc") || !strings.Contains(styled, "Work") {
		t.Errorf("styled output missing cells:\n%s", styled)
	}
	if styled == plain {
		t.Error("styled and plain output are identical")
	}

	if got := renderTable(nil, nil, nil, true); got != "" {
		t.Errorf("empty table = %q, want empty string", got)
	}
}
