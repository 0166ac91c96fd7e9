/*
Package config manages TOML config for RankServe services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rankserve/rankserve/internal/utils"
	"github.com/rankserve/rankserve/pkg/rank"
)

// Config holds the entire config structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Rank   RankConfig   `toml:"rank"`
	Bonus  BonusConfig  `toml:"bonus"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxResults int `toml:"max_results"`
	MinQuery   int `toml:"min_query"`
	MaxQuery   int `toml:"max_query"`
}

// RankConfig holds scoring engine options.
type RankConfig struct {
	FoldCacheSize    int  `toml:"fold_cache_size"`
	DetectBoundaries bool `toml:"detect_boundaries"`
	CaseSensitive    bool `toml:"case_sensitive"`
}

// BonusConfig tunes the usage and recency decay curves.
type BonusConfig struct {
	MaxFrequency  int `toml:"max_frequency"`
	MaxRecency    int `toml:"max_recency"`
	MaxModified   int `toml:"max_modified"`
	HalfLifeHours int `toml:"half_life_hours"`
	TTLDays       int `toml:"ttl_days"`
}

// ToRank converts the TOML-facing bonus settings into the engine's form.
// Out-of-range values fall back to the engine defaults.
func (b BonusConfig) ToRank() rank.BonusConfig {
	cfg := rank.DefaultBonusConfig()
	if b.MaxFrequency > 0 {
		cfg.MaxFrequency = b.MaxFrequency
	}
	if b.MaxRecency > 0 {
		cfg.MaxRecency = b.MaxRecency
	}
	if b.MaxModified > 0 {
		cfg.MaxModified = b.MaxModified
	}
	if b.HalfLifeHours > 0 && b.HalfLifeHours < 24 {
		cfg.HalfLife = time.Duration(b.HalfLifeHours) * time.Hour
	}
	if b.TTLDays > 1 {
		cfg.TTL = time.Duration(b.TTLDays) * 24 * time.Hour
	}
	return cfg
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxResults: rank.DefaultMaxResults,
			MinQuery:   0,
			MaxQuery:   120,
		},
		Rank: RankConfig{
			FoldCacheSize:    rank.DefaultFoldCacheSize,
			DetectBoundaries: true,
			CaseSensitive:    false,
		},
		Bonus: BonusConfig{
			MaxFrequency:  50,
			MaxRecency:    30,
			MaxModified:   40,
			HalfLifeHours: 6,
			TTLDays:       7,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. user config dir (~/.config on unix)
// 2. the executable's directory
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err == nil {
		primary := filepath.Join(base, "rankserve")
		if utils.DirWritable(primary) {
			return primary, nil
		}
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// InitConfig loads config from file or creates a default one if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file, salvaging valid sections when strict
// decoding fails.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse recovers whatever valid sections a broken TOML file holds.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLRaw(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "rank"); ok {
		extractRankConfig(section, &config.Rank)
	}
	if section, ok := utils.ExtractSection(raw, "bonus"); ok {
		extractBonusConfig(section, &config.Bonus)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		server.MaxResults = val
	}
	if val, ok := utils.ExtractInt(data, "min_query"); ok {
		server.MinQuery = val
	}
	if val, ok := utils.ExtractInt(data, "max_query"); ok {
		server.MaxQuery = val
	}
}

func extractRankConfig(data map[string]any, rankCfg *RankConfig) {
	if val, ok := utils.ExtractInt(data, "fold_cache_size"); ok {
		rankCfg.FoldCacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "detect_boundaries"); ok {
		rankCfg.DetectBoundaries = val
	}
	if val, ok := utils.ExtractBool(data, "case_sensitive"); ok {
		rankCfg.CaseSensitive = val
	}
}

func extractBonusConfig(data map[string]any, bonus *BonusConfig) {
	if val, ok := utils.ExtractInt(data, "max_frequency"); ok {
		bonus.MaxFrequency = val
	}
	if val, ok := utils.ExtractInt(data, "max_recency"); ok {
		bonus.MaxRecency = val
	}
	if val, ok := utils.ExtractInt(data, "max_modified"); ok {
		bonus.MaxModified = val
	}
	if val, ok := utils.ExtractInt(data, "half_life_hours"); ok {
		bonus.HalfLifeHours = val
	}
	if val, ok := utils.ExtractInt(data, "ttl_days"); ok {
		bonus.TTLDays = val
	}
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes server config values and saves to file. Nil fields are
// left untouched.
func (c *Config) Update(configPath string, maxResults, minQuery, maxQuery *int) error {
	if maxResults != nil {
		c.Server.MaxResults = *maxResults
	}
	if minQuery != nil {
		c.Server.MinQuery = *minQuery
	}
	if maxQuery != nil {
		c.Server.MaxQuery = *maxQuery
	}
	return SaveConfig(c, configPath)
}
