// Command abacus is the CLI tool for the Austrian Baroque Corpus data
// repository. It generates the redirect tables for the corpus relaunch,
// builds the persons/places registers, and creates and verifies corpus
// snapshot archives.
package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/logging"
)

const version = "0.3.0"

// CLI defines the command-line interface for abacus.
var CLI struct {
	// Global flags
	ConfigFile string `name:"config" help:"Configuration file path" type:"path"`
	LogLevel   string `name:"log-level" help:"Log level (debug|info|warn|error)"`
	LogFormat  string `name:"log-format" help:"Log format (text|json)"`

	// Command groups (noun-first organization)
	Redirects RedirectsGroup `cmd:"" help:"Redirect-table generation"`
	Corpus    CorpusGroup    `cmd:"" help:"Edition collection inspection"`
	Register  RegisterGroup  `cmd:"" help:"Persons/places register operations"`
	Snapshot  SnapshotGroup  `cmd:"" help:"Corpus snapshot archives"`
	Config    ConfigGroup    `cmd:"" help:"Configuration management"`
	Version   VersionCmd     `cmd:"" help:"Print version information"`
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("abacus version %s\n", version)
	return nil
}

// orConfig returns the flag value when set, the config fallback otherwise.
func orConfig(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("abacus"),
		kong.Description("ABaC:us corpus tooling - redirect tables, registers, snapshots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	// version and config init must work without a readable config file.
	cfg := config.Default()
	configPath, configLoaded := "", false
	command := ctx.Command()
	if command != "version" && !strings.HasPrefix(command, "config") {
		loaded, path, exists, err := config.Load(CLI.ConfigFile)
		ctx.FatalIfErrorf(err)
		cfg = *loaded
		configPath, configLoaded = path, exists
	}

	logging.InitLogger(
		logging.ParseLevel(orConfig(CLI.LogLevel, cfg.Logging.Level)),
		logging.ParseFormat(orConfig(CLI.LogFormat, cfg.Logging.Format)),
	)
	if configLoaded {
		logging.Debug("config loaded", "path", configPath)
	}

	err := ctx.Run(&cfg)
	ctx.FatalIfErrorf(err)
}
