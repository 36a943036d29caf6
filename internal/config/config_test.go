package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/skim/internal/config"
)

func TestLoad_MissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := config.Load(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.PageSize, 10)
	assert.Equal(t, time.Duration(cfg.PollInterval), 2*time.Second)

	// The file should have been written with the defaults.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file created: %v", err)
	}
}

func TestLoad_PartialFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "api_base_url: https://skim.example.com/api\npoll_interval: 5s\n"
	assert.NilError(t, os.WriteFile(path, []byte(partial), 0644))

	cfg, err := config.Load(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.APIBaseURL, "https://skim.example.com/api")
	assert.Equal(t, time.Duration(cfg.PollInterval), 5*time.Second)
	assert.Equal(t, cfg.PageSize, 10)
	assert.Equal(t, cfg.LogLevel, "info")
	assert.Assert(t, cfg.SessionFile != "")
}

func TestLoad_BadDurationRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("poll_interval: soon\n"), 0644))

	_, err := config.Load(path)
	assert.Assert(t, err != nil)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	in := config.DefaultConfig()
	in.APIBaseURL = "https://skim.example.com/api"
	in.PageSize = 25
	assert.NilError(t, config.Save(path, &in))

	out, err := config.Load(path)
	assert.NilError(t, err)
	assert.Equal(t, out.APIBaseURL, in.APIBaseURL)
	assert.Equal(t, out.PageSize, 25)
	assert.Equal(t, time.Duration(out.PollInterval), 2*time.Second)
}
