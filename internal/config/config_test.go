package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestEnsureUserConfigWritesDefaults(t *testing.T) {
	home := t.TempDir()

	path, created, err := EnsureUserConfig(home)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, filepath.Join(home, FileName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, created, err = EnsureUserConfig(home)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("data:\n  dir: records\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "records", cfg.Data.Dir)
	assert.Equal(t, "data.csv", cfg.Data.Table)
	assert.Equal(t, "auto", cfg.Display.Color)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	cfg := Default()
	cfg.Data.Dir = ""
	cfg.Data.ResumeDir = "../outside"
	cfg.Log.Level = "loud"
	cfg.Display.Color = "sometimes"
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotValid)
	for _, want := range []string{"data.dir", "data.resume_dir", "log.level", "display.color"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = Default()
	cfg.Data.CoverLetterDir = cfg.Data.ResumeDir
	assert.ErrorContains(t, Validate(cfg), "must differ")
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "  WARN "
	cfg.Display.Color = "Never"
	cfg.Data.Table = "jobs.txt"

	out, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.Equal(t, "warn", out.Log.Level)
	assert.Equal(t, "never", out.Display.Color)
	assert.Len(t, res.Warnings, 1)
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, SaveAtomic(path, Default()))

	cfg := Default()
	cfg.Log.Level = "debug"
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.Log.Level)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "info", bak.Log.Level)

	bad := Default()
	bad.Data.Table = ""
	assert.Error(t, SaveAtomic(path, bad))
}

func TestOverlayEnv(t *testing.T) {
	unsetEnv(t, EnvDataDir, EnvLogLevel, EnvColor)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"),
		[]byte("APPLI_COLOR=never\nAPPLI_DATA_DIR=from-dotenv\n"), 0o644))
	require.NoError(t, os.Setenv(EnvDataDir, "from-env"))

	cfg := Default()
	require.NoError(t, OverlayEnv(&cfg, home))
	assert.Equal(t, "never", cfg.Display.Color)
	assert.Equal(t, "from-env", cfg.Data.Dir, "process env wins over .env")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestOverlayEnvWithoutDotenv(t *testing.T) {
	unsetEnv(t, EnvDataDir, EnvLogLevel, EnvColor)
	require.NoError(t, os.Setenv(EnvLogLevel, "ERROR"))

	cfg := Default()
	require.NoError(t, OverlayEnv(&cfg, t.TempDir()))
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestBootstrapResolvesPaths(t *testing.T) {
	unsetEnv(t, EnvDataDir, EnvLogLevel, EnvColor)
	home := t.TempDir()

	cfg, res, err := Bootstrap(home)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, filepath.Join(home, "db"), cfg.Data.Dir)
	assert.Equal(t, filepath.Join(home, "appli.log"), cfg.Log.File)
	assert.FileExists(t, filepath.Join(home, FileName))
}

func TestBootstrapRejectsInvalidFile(t *testing.T) {
	unsetEnv(t, EnvDataDir, EnvLogLevel, EnvColor)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte("log:\n  level: chatty\n"), 0o644))

	_, res, err := Bootstrap(home)
	require.Error(t, err)
	assert.False(t, res.OK())
}
