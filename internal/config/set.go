package config

import (
	"fmt"
	"strconv"
)

// Keys lists the settings accepted by Set, in display order.
func Keys() []string {
	return []string{
		"api_url",
		"tui_theme",
		"sources_for_user",
		"verbose",
		"copy_to_clipboard",
		"log_file",
		"markdown.enabled",
		"markdown.style",
	}
}

// Set assigns a single setting by its JSON key.
func Set(cfg *Config, key, value string) error {
	switch key {
	case "api_url":
		normalized, err := NormalizeAPIURL(value)
		if err != nil {
			return err
		}
		cfg.APIURL = normalized
	case "tui_theme":
		cfg.TUITheme = value
	case "log_file":
		cfg.LogFile = value
	case "markdown.style":
		cfg.Markdown.Style = value
	case "sources_for_user", "verbose", "copy_to_clipboard", "markdown.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		switch key {
		case "sources_for_user":
			cfg.SourcesForUser = b
		case "verbose":
			cfg.Verbose = b
		case "copy_to_clipboard":
			cfg.CopyToClipboard = b
		case "markdown.enabled":
			cfg.Markdown.Enabled = b
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Get returns the display value of a setting by its JSON key.
func Get(cfg Config, key string) (string, error) {
	switch key {
	case "api_url":
		return cfg.APIURL, nil
	case "tui_theme":
		return cfg.TUITheme, nil
	case "sources_for_user":
		return strconv.FormatBool(cfg.SourcesForUser), nil
	case "verbose":
		return strconv.FormatBool(cfg.Verbose), nil
	case "copy_to_clipboard":
		return strconv.FormatBool(cfg.CopyToClipboard), nil
	case "log_file":
		return cfg.LogFile, nil
	case "markdown.enabled":
		return strconv.FormatBool(cfg.Markdown.Enabled), nil
	case "markdown.style":
		return cfg.Markdown.Style, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}
