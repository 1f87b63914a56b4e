package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initIsolated(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	Init()
	return home
}

func TestInitDefaults(t *testing.T) {
	home := initIsolated(t)

	assert.Equal(t, filepath.Join(home, "Public/bsuir-rt-draft/bsuir-rt"), GetRoot())
	assert.Equal(t, []string{"backend", "rules", "service", "frontend"}, GetModules())
	assert.Equal(t, "src", GetSourceDir())
	assert.Equal(t, "manifest.tex", GetManifest())
	assert.Equal(t, ".tex", GetExtension())
	assert.Equal(t, "warn", GetLogLevel())
	assert.Equal(t, 200*time.Millisecond, GetWatchDebounce())
}

func TestInitReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	dir := filepath.Join(home, ".config", "rtutils")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rtutils.yaml"), []byte(
		"root: /srv/rt\nmodules: [backend]\nwatch_debounce: 1s\n"), 0o644))

	viper.Reset()
	t.Cleanup(viper.Reset)
	Init()

	assert.Equal(t, "/srv/rt", GetRoot())
	assert.Equal(t, []string{"backend"}, GetModules())
	assert.Equal(t, time.Second, GetWatchDebounce())
	assert.Equal(t, []string{"/srv/rt-backend/src"}, ProjectDirs(nil))
}

func TestProjectDirs(t *testing.T) {
	home := initIsolated(t)
	root := filepath.Join(home, "Public/bsuir-rt-draft/bsuir-rt")

	t.Run("from configured modules", func(t *testing.T) {
		assert.Equal(t, []string{
			root + "-backend/src",
			root + "-rules/src",
			root + "-service/src",
			root + "-frontend/src",
		}, ProjectDirs(nil))
	})

	t.Run("explicit arguments win", func(t *testing.T) {
		assert.Equal(t, []string{"/a/src", filepath.Join(home, "b/src")}, ProjectDirs([]string{"/a/src", "~/b/src"}))
	})
}

func TestSetLogLevel(t *testing.T) {
	initIsolated(t)
	SetLogLevel("debug")
	assert.Equal(t, "debug", GetLogLevel())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("RTUTILS_MANIFEST", "main.tex")
	t.Setenv("RTUTILS_LOG_LEVEL", "info")
	initIsolated(t)

	assert.Equal(t, "main.tex", GetManifest())
	assert.Equal(t, "info", GetLogLevel())
	assert.Equal(t, "src", GetSourceDir())
}
