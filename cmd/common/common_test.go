package common

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/ta-engine/internal/config"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

func TestAnalysisFlags_ApplyOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterAnalysisFlags(fs)
	require.NoError(t, fs.Parse([]string{"-ticker", "msft", "-rsi-window", "7", "-start", "2021-03-01", "-format", "CSV, json"}))

	cfg := &config.Config{}
	cfg.Analysis.Params = indicators.DefaultParams()
	cfg.Analysis.Params.ADXWindow = 20
	cfg.Data.Provider = config.ProviderPolygon

	require.NoError(t, flags.Apply(fs, cfg))
	assert.Equal(t, "MSFT", cfg.Analysis.Ticker)
	assert.Equal(t, 7, cfg.Analysis.Params.RSIWindow)
	assert.Equal(t, 20, cfg.Analysis.Params.ADXWindow, "unset flag keeps the env value")
	assert.Equal(t, config.ProviderPolygon, cfg.Data.Provider)
	assert.Equal(t, "2021-03-01", cfg.Analysis.Start.String())
	assert.Equal(t, []string{"csv", "json"}, cfg.Output.Formats)
}

func TestAnalysisFlags_InvalidDate(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterAnalysisFlags(fs)
	require.NoError(t, fs.Parse([]string{"-end", "01/02/2024"}))

	err := flags.Apply(fs, &config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-end")
}

func TestAnalysisFlags_ConsoleOnly(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterAnalysisFlags(fs)
	require.NoError(t, fs.Parse([]string{"-format", "csv,xlsx", "-console-only"}))

	cfg := &config.Config{}
	require.NoError(t, flags.Apply(fs, cfg))
	assert.Equal(t, []string{"console"}, cfg.Output.Formats)
}

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator().
		ValidateInt("rsi-window", 1, 2, 50).
		ValidateChoice("provider", "yahoo", []string{"csv", "bybit", "polygon"}).
		ValidateFile("csv", "", false)

	require.True(t, v.HasErrors())
	assert.Len(t, v.GetErrors(), 2)
	assert.Contains(t, v.GetError().Error(), "rsi-window must be between 2 and 50, got: 1")

	assert.NoError(t, NewFlagValidator().ValidateInt("x", 5, 2, 50).GetError())
	assert.Error(t, NewFlagValidator().ValidateFile("csv", filepath.Join(t.TempDir(), "missing.csv"), true).GetError())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.Out = &buf
	l.ShowEmojis = false

	l.Info("loading %s", "AAPL")
	l.Debug("hidden")
	l.SetSilentMode(true)
	l.Success("hidden")
	l.Error("shown %d", 1)

	assert.Equal(t, "[INFO] loading AAPL\n[ERROR] shown 1\n", buf.String())
}

func TestEnvLoader(t *testing.T) {
	var buf bytes.Buffer
	loader := NewEnvLoader(&Logger{Level: LogLevelInfo, Out: &buf})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TA_ENGINE_TEST_KEY=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TA_ENGINE_TEST_KEY") })

	require.NoError(t, loader.LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("TA_ENGINE_TEST_KEY"))

	assert.NoError(t, loader.LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")), "missing file is fine")
}

func TestApplyLogLevel(t *testing.T) {
	saved := DefaultLogger.Level
	t.Cleanup(func() { DefaultLogger.Level = saved })

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse(nil))

	ApplyLogLevel(flags, "DEBUG")
	assert.Equal(t, LogLevelDebug, DefaultLogger.Level)
	ApplyLogLevel(flags, "warn")
	assert.Equal(t, LogLevelWarn, DefaultLogger.Level)

	require.NoError(t, fs.Parse([]string{"-verbose"}))
	ApplyLogLevel(flags, "error")
	assert.Equal(t, LogLevelWarn, DefaultLogger.Level, "-verbose wins over LOG_LEVEL")
}

func TestVersion(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, ProjectVersion, info.Version)
	assert.True(t, IsDevBuild())
	assert.Contains(t, GetFullVersion(), ProjectVersion+"-dev")
}
