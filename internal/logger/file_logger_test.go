package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	data, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	return string(data)
}

func TestNewLogger_Path(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "aapl", "2020-01-01_2025-01-01")
	require.NoError(t, err)
	defer l.Close()

	want := filepath.Join(dir, "AAPL_2020-01-01_2025-01-01_"+time.Now().Format("2006-01-02")+".log")
	assert.Equal(t, want, l.GetLogPath())
	assert.Contains(t, readLog(t, l), "Ticker: AAPL | Range: 2020-01-01_2025-01-01")
}

func TestLogger_Levels(t *testing.T) {
	l, err := NewLogger(t.TempDir(), "MSFT", "open_open")
	require.NoError(t, err)

	l.Info("loaded %d bars", 10)
	l.Warning("gap on %s", "2024-01-05")
	l.LogError("load", errors.New("boom"))
	l.Status("done")
	require.NoError(t, l.Close())
	assert.NoError(t, l.Close(), "second close is a no-op")

	content, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "[INFO] loaded 10 bars")
	assert.Contains(t, out, "[WARN] gap on 2024-01-05")
	assert.Contains(t, out, "[ERROR] load: boom")
	assert.Contains(t, out, "[STATUS] done")
	assert.Contains(t, out, "SESSION ENDED")
}

func TestLogger_AppendsSessions(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		l, err := NewLogger(dir, "AAPL", "r")
		require.NoError(t, err)
		require.NoError(t, l.Close())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "SESSION STARTED"))
}

func TestLogger_LogRunSummary(t *testing.T) {
	l, err := NewLogger(t.TempDir(), "AAPL", "r")
	require.NoError(t, err)
	defer l.Close()

	l.LogRunSummary(RunSummary{
		Provider:   "csv",
		Params:     map[string]int{"rsi_window": 14, "adx_window": 14},
		Bars:       100,
		Dropped:    27,
		Rows:       73,
		Duration:   3 * time.Millisecond,
		Latest:     map[string]float64{"RSI": 55.5, "ADX": 21},
		LatestDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Reports:    []string{"results/AAPL/indicators.csv"},
	})
	l.LogRunSummary(RunSummary{Provider: "csv", Bars: 20, Dropped: 20})

	out := readLog(t, l)
	assert.Contains(t, out, "Params: adx_window=14 rsi_window=14")
	assert.Contains(t, out, "Bars: 100 | Dropped: 27 | Rows: 73")
	assert.Contains(t, out, "Latest (2024-05-01): ADX=21.0000 RSI=55.5000")
	assert.Contains(t, out, "Report: results/AAPL/indicators.csv")
	assert.Contains(t, out, "Insufficient history")
}
