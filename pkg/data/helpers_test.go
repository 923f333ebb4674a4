package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/ta-engine/pkg/types"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func generateTestBars(start string, n int) []types.OHLCV {
	bars := make([]types.OHLCV, n)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = types.OHLCV{
			Date:   day(start).AddDate(0, 0, i),
			Open:   p,
			High:   p + 2,
			Low:    p - 2,
			Close:  p + 1,
			Volume: int64(1000 + i),
		}
	}
	return bars
}
