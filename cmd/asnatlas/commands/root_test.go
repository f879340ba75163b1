package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := loadConfig()
	require.Equal(t, "data/input/processed_asns.json", cfg.TrackingFile)
	require.Equal(t, "data/input/asn_list.txt", cfg.InputFile)
	require.Equal(t, "data/output", cfg.OutputDir)
	require.Equal(t, 2, *cfg.DelaySeconds)
}

func TestLoadConfigExplicitZeroDelay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json5"),
		[]byte(`{delay_seconds: 0}`),
		0o644,
	))
	chdir(t, dir)

	cfg := loadConfig()
	require.Equal(t, 0, *cfg.DelaySeconds)
}
