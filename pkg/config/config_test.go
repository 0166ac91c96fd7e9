package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rankserve/rankserve/pkg/rank"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	require.Equal(t, rank.DefaultMaxResults, cfg.Server.MaxResults)
	require.Equal(t, 120, cfg.Server.MaxQuery)
	require.True(t, cfg.Rank.DetectBoundaries)
	require.FileExists(t, path)

	// A second init reads the file it just wrote.
	again, err := InitConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Server.MaxResults = 7
	cfg.Bonus.TTLDays = 14
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 7, loaded.Server.MaxResults)
	require.Equal(t, 14, loaded.Bonus.TTLDays)
}

func TestLoadConfigSalvagesBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	broken := `[server]
max_results = 11
min_query = "not a number"

[rank]
detect_boundaries = false
`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 11, cfg.Server.MaxResults, "valid keys survive a broken file")
	require.Equal(t, 0, cfg.Server.MinQuery, "invalid keys fall back to defaults")
	require.False(t, cfg.Rank.DetectBoundaries)
}

func TestBonusConfigToRankGuards(t *testing.T) {
	def := rank.DefaultBonusConfig()

	got := BonusConfig{}.ToRank()
	require.Equal(t, def, got, "zero values mean engine defaults")

	got = BonusConfig{
		MaxFrequency:  80,
		HalfLifeHours: 3,
		TTLDays:       14,
	}.ToRank()
	require.Equal(t, 80, got.MaxFrequency)
	require.Equal(t, 3*time.Hour, got.HalfLife)
	require.Equal(t, 14*24*time.Hour, got.TTL)

	got = BonusConfig{HalfLifeHours: 48, TTLDays: 1}.ToRank()
	require.Equal(t, def.HalfLife, got.HalfLife, "half life past a day is rejected")
	require.Equal(t, def.TTL, got.TTL)
}

func TestConfigUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	limit := 5
	require.NoError(t, cfg.Update(path, &limit, nil, nil))
	require.Equal(t, 5, cfg.Server.MaxResults)
	require.Equal(t, 120, cfg.Server.MaxQuery)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, loaded.Server.MaxResults)
}
