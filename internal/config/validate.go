package config

import (
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRedirect(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRedirect() error {
	switch c.Redirect.OutputMode {
	case "concOutput", "ruleOutput":
	default:
		return fmt.Errorf("redirect.output_mode must be concOutput or ruleOutput, got %q", c.Redirect.OutputMode)
	}
	for name, value := range map[string]string{
		"redirect.base_url_old": c.Redirect.BaseURLOld,
		"redirect.base_url_new": c.Redirect.BaseURLNew,
	} {
		if value == "" {
			continue
		}
		if _, err := url.Parse(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}
