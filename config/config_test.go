package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	assert.Equal(FormatListing, cfg.Format)
	assert.Equal("cfg", cfg.GraphName)
	assert.Nil(cfg.Entry)
	assert.False(cfg.Verbose)
	assert.NoError(cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "tracecfg.yaml")
	text := "entry: 0x100\nformat: dot\ngraph_name: loop\nverbose: true\npredefine:\n  BASE: \"0x100\"\n"
	assert.NoError(os.WriteFile(path, []byte(text), 0644))

	cfg, err := LoadFromFile(path)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.NotNil(cfg.Entry)
	assert.Equal(0x100, *cfg.Entry)
	assert.Equal(FormatDot, cfg.Format)
	assert.Equal("loop", cfg.GraphName)
	assert.True(cfg.Verbose)
	assert.Equal(map[string]string{"BASE": "0x100"}, cfg.Predefine)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	path := filepath.Join(dir, "bad.yaml")
	assert.NoError(os.WriteFile(path, []byte("format: svg\n"), 0644))
	_, err := LoadFromFile(path)
	assert.True(errors.Is(err, ErrFormat))

	path = filepath.Join(dir, "broken.yaml")
	assert.NoError(os.WriteFile(path, []byte("format: [\n"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(err)
}

func TestEnvOverrides(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TRACECFG_ENTRY", "0x40")
	t.Setenv("TRACECFG_FORMAT", "dot")
	t.Setenv("TRACECFG_GRAPH_NAME", "env")
	t.Setenv("TRACECFG_VERBOSE", "true")

	path := filepath.Join(t.TempDir(), "tracecfg.yaml")
	assert.NoError(os.WriteFile(path, []byte("entry: 1\nformat: listing\n"), 0644))

	cfg, err := LoadFromFile(path)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(0x40, *cfg.Entry)
	assert.Equal(FormatDot, cfg.Format)
	assert.Equal("env", cfg.GraphName)
	assert.True(cfg.Verbose)

	t.Setenv("TRACECFG_ENTRY", "nowhere")
	_, err = LoadFromFile(path)
	assert.True(errors.Is(err, ErrEntry))

	t.Setenv("TRACECFG_ENTRY", "")
	t.Setenv("TRACECFG_VERBOSE", "loud")
	_, err = LoadFromFile(path)
	assert.True(errors.Is(err, ErrVerbose))

	t.Chdir(t.TempDir())
	_, err = Load()
	assert.True(errors.Is(err, ErrVerbose))
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	t.Chdir(t.TempDir())

	cfg, err := Load()
	assert.NoError(err)
	assert.Equal(DefaultConfig(), cfg)

	assert.NoError(os.WriteFile(ConfigFile, []byte("graph_name: project\n"), 0644))
	cfg, err = Load()
	assert.NoError(err)
	assert.Equal("project", cfg.GraphName)
}

func TestSave(t *testing.T) {
	assert := assert.New(t)

	entry := 7
	cfg := DefaultConfig()
	cfg.Entry = &entry
	cfg.Format = FormatDot

	path := filepath.Join(t.TempDir(), "sub", "tracecfg.yaml")
	assert.NoError(cfg.Save(path))

	loaded, err := LoadFromFile(path)
	assert.NoError(err)
	assert.Equal(cfg, loaded)
}
