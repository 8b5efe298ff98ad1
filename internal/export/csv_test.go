package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"KrakenSandbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var series = model.PriceSeries{
	Pair: "XXBTZEUR",
	Prices: []model.PricePoint{
		{Time: 1688671260, Open: 30306.1, High: 30307.5, Low: 30300, Close: 30301.9, Vwap: 30304.2, Volume: 0.01, Count: 4},
		{Time: 1688671200, Open: 30306.1, High: 30306.2, Low: 30305.7, Close: 30306.1, Vwap: 30306, Volume: 3.39243896, Count: 23},
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, series))

	want := "time,open,high,low,close,vwap,volume,count\n" +
		"1688671260,30306.1,30307.5,30300,30301.9,30304.2,0.01,4\n" +
		"1688671200,30306.1,30306.2,30305.7,30306.1,30306,3.39243896,23\n"
	assert.Equal(t, want, buf.String(), "rows keep series order")
}

func TestWriteCSV_EmptySeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.PriceSeries{Pair: "X"}))
	assert.Equal(t, "time,open,high,low,close,vwap,volume,count\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv")
	path, err := WriteFile(dir, series)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "XXBTZEUR.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1688671200,30306.1")
}
