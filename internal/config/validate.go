package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateQuotas(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateSummarize(); err != nil {
		return err
	}
	if err := c.validatePages(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CatalogFile) == "" {
		return errors.New("paths.catalog_file must be set")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir must be set")
	}
	return nil
}

func (c *Config) validateSource() error {
	if c.Source.MaxDurationSeconds <= 0 {
		return errors.New("source.max_duration_seconds must be positive")
	}
	return nil
}

func (c *Config) validateQuotas() error {
	quotas := map[string]int{
		"audio.quota":      c.Audio.Quota,
		"subtitles.quota":  c.Subtitles.Quota,
		"transcribe.quota": c.Transcribe.Quota,
		"summarize.quota":  c.Summarize.Quota,
		"dates.quota":      c.Dates.Quota,
	}
	for name, value := range quotas {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Audio.PauseSeconds < 0 {
		return errors.New("audio.pause_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	lang := strings.TrimSpace(c.Subtitles.Language)
	if lang == "" {
		return errors.New("subtitles.language must be set")
	}
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("subtitles.language: invalid tag %q: %w", lang, err)
	}
	return nil
}

func (c *Config) validateSummarize() error {
	if c.Summarize.DensityThreshold < 0 || c.Summarize.DensityThreshold > 1 {
		return errors.New("summarize.density_threshold must be between 0 and 1")
	}
	if c.Summarize.MaxAttempts <= 0 {
		return errors.New("summarize.max_attempts must be positive")
	}
	return nil
}

func (c *Config) validatePages() error {
	if c.Pages.BatchSize <= 0 {
		return errors.New("pages.batch_size must be positive")
	}
	return nil
}
