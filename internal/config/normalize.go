package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCorpus(); err != nil {
		return err
	}
	if err := c.normalizeRegister(); err != nil {
		return err
	}
	if err := c.normalizeSnapshot(); err != nil {
		return err
	}
	c.normalizeRedirect()
	c.normalizeFetch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCorpus() error {
	var err error
	if strings.TrimSpace(c.Corpus.PathToDocs) == "" {
		c.Corpus.PathToDocs = defaultPathToDocs
	}
	if c.Corpus.PathToDocs, err = expandPath(c.Corpus.PathToDocs); err != nil {
		return fmt.Errorf("corpus.path_to_docs: %w", err)
	}
	if strings.TrimSpace(c.Corpus.Glob) == "" {
		c.Corpus.Glob = defaultGlob
	}
	if strings.TrimSpace(c.Corpus.TocDir) == "" {
		c.Corpus.TocDir = defaultTocDir
	}
	if c.Corpus.TocDir, err = expandPath(c.Corpus.TocDir); err != nil {
		return fmt.Errorf("corpus.toc_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRedirect() {
	if strings.TrimSpace(c.Redirect.OutputMode) == "" {
		c.Redirect.OutputMode = defaultOutputMode
	}
	c.Redirect.BaseURLOld = strings.TrimSpace(c.Redirect.BaseURLOld)
	c.Redirect.BaseURLNew = strings.TrimSpace(c.Redirect.BaseURLNew)
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	if c.Fetch.RateLimitMillis < 0 {
		c.Fetch.RateLimitMillis = defaultFetchRateLimit
	}
	if c.Fetch.CacheTTLSeconds <= 0 {
		c.Fetch.CacheTTLSeconds = defaultFetchCacheTTL
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
}

func (c *Config) normalizeRegister() error {
	var err error
	if strings.TrimSpace(c.Register.OutDir) == "" {
		c.Register.OutDir = defaultRegisterOutDir
	}
	if c.Register.OutDir, err = expandPath(c.Register.OutDir); err != nil {
		return fmt.Errorf("register.out_dir: %w", err)
	}
	if strings.TrimSpace(c.Register.DBPath) != "" {
		if c.Register.DBPath, err = expandPath(c.Register.DBPath); err != nil {
			return fmt.Errorf("register.db_path: %w", err)
		}
	}
	if strings.TrimSpace(c.Register.TemplateDir) != "" {
		if c.Register.TemplateDir, err = expandPath(c.Register.TemplateDir); err != nil {
			return fmt.Errorf("register.template_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSnapshot() error {
	var err error
	if strings.TrimSpace(c.Snapshot.Dir) == "" {
		c.Snapshot.Dir = defaultSnapshotDir
	}
	if c.Snapshot.Dir, err = expandPath(c.Snapshot.Dir); err != nil {
		return fmt.Errorf("snapshot.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}
