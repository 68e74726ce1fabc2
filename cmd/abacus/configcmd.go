package main

import (
	"fmt"
	"os"

	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
)

// ConfigGroup contains configuration management operations.
type ConfigGroup struct {
	Init ConfigInitCmd `cmd:"" help:"Write a sample configuration file"`
}

// ConfigInitCmd writes the annotated sample configuration to disk.
type ConfigInitCmd struct {
	Path  string `help:"Destination path (default ~/.config/abacus/config.toml)" type:"path"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run() error {
	path := c.Path
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if !c.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", path)
	return nil
}
