package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the optional TOML configuration file. Unset keys keep
// the built-in defaults.
type FileConfig struct {
	Server  ServerFile  `toml:"server"`
	Profile ProfileFile `toml:"profile"`
	Jobs    JobsFile    `toml:"jobs"`
}

type ServerFile struct {
	Port           *string `toml:"port"`
	LogLevel       *string `toml:"log-level"`
	MaxUploadBytes *int64  `toml:"max-upload-bytes"`
	PDFFallback    *bool   `toml:"pdf-fallback"`
}

type ProfileFile struct {
	Provider       *string   `toml:"provider"`
	GeminiModels   []string  `toml:"gemini-models"`
	AnthropicModel *string   `toml:"anthropic-model"`
	CacheTTL       *duration `toml:"cache-ttl"`
	StatsWindow    *duration `toml:"stats-window"`
}

type JobsFile struct {
	Workers    *int      `toml:"workers"`
	QueueSize  *int      `toml:"queue-size"`
	MaxRetries *int      `toml:"max-retries"`
	TTL        *duration `toml:"ttl"`
}

// duration decodes TOML strings such as "90m".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fc, nil
}

func (fc FileConfig) apply(c *Config) {
	if fc.Server.Port != nil {
		c.Port = *fc.Server.Port
	}
	if fc.Server.LogLevel != nil {
		c.LogLevel = *fc.Server.LogLevel
	}
	if fc.Server.MaxUploadBytes != nil {
		c.MaxUploadBytes = *fc.Server.MaxUploadBytes
	}
	if fc.Server.PDFFallback != nil {
		c.PDFFallbackPdftotext = *fc.Server.PDFFallback
	}
	if fc.Profile.Provider != nil {
		c.Provider = *fc.Profile.Provider
	}
	if len(fc.Profile.GeminiModels) > 0 {
		c.GeminiModels = fc.Profile.GeminiModels
	}
	if fc.Profile.AnthropicModel != nil {
		c.AnthropicModel = *fc.Profile.AnthropicModel
	}
	if fc.Profile.CacheTTL != nil {
		c.ProfileCacheTTL = fc.Profile.CacheTTL.Duration
	}
	if fc.Profile.StatsWindow != nil {
		c.StatsWindow = fc.Profile.StatsWindow.Duration
	}
	if fc.Jobs.Workers != nil {
		c.WorkerCount = *fc.Jobs.Workers
	}
	if fc.Jobs.QueueSize != nil {
		c.MaxQueueSize = *fc.Jobs.QueueSize
	}
	if fc.Jobs.MaxRetries != nil {
		c.MaxRetries = *fc.Jobs.MaxRetries
	}
	if fc.Jobs.TTL != nil {
		c.JobTTL = fc.Jobs.TTL.Duration
	}
}
