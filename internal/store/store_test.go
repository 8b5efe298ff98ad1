package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"KrakenSandbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []model.PricePoint {
	return []model.PricePoint{
		{Time: 1688671200, Open: 30306.1, High: 30306.2, Low: 30305.7, Close: 30306.1, Vwap: 30306.0, Volume: 3.39243896, Count: 23},
		{Time: 1688671260, Open: 30306.1, High: 30307.5, Low: 30300.0, Close: 30301.9, Vwap: 30304.2, Volume: 0.01, Count: 4},
		{Time: 1688671320, Open: 0.1 + 0.2, High: math.SmallestNonzeroFloat64, Low: -0.0, Close: math.MaxFloat64, Vwap: 1e-300, Volume: 0, Count: math.MaxUint32},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlc.db")
	in := model.PriceSeries{Pair: "XXBTZEUR", Prices: samplePoints()}

	require.NoError(t, Write(path, in))
	out, err := Read(path, "XXBTZEUR")
	require.NoError(t, err)

	assert.Equal(t, "XXBTZEUR", out.Pair)
	require.Len(t, out.Prices, len(in.Prices))
	for i := range in.Prices {
		assert.Equal(t, in.Prices[i], out.Prices[i])
		assert.Equal(t, math.Float64bits(in.Prices[i].Low), math.Float64bits(out.Prices[i].Low), "bit-exact")
	}
}

func TestRead_KeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlc.db")
	pts := samplePoints()
	shuffled := []model.PricePoint{pts[2], pts[0], pts[1]}
	require.NoError(t, Write(path, model.PriceSeries{Pair: "XXBTZEUR", Prices: shuffled}))

	out, err := Read(path, "XXBTZEUR")
	require.NoError(t, err)
	require.Len(t, out.Prices, 3)
	assert.Equal(t, []int64{1688671200, 1688671260, 1688671320},
		[]int64{out.Prices[0].Time, out.Prices[1].Time, out.Prices[2].Time})
}

func TestWrite_OverwritesSameTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlc.db")
	first := model.PricePoint{Time: 100, Close: 1}
	second := model.PricePoint{Time: 100, Close: 2}
	require.NoError(t, Write(path, model.PriceSeries{Pair: "A", Prices: []model.PricePoint{first}}))
	require.NoError(t, Write(path, model.PriceSeries{Pair: "A", Prices: []model.PricePoint{second, {Time: 200, Close: 3}}}))

	out, err := Read(path, "A")
	require.NoError(t, err)
	require.Len(t, out.Prices, 2)
	assert.Equal(t, 2.0, out.Prices[0].Close)
	assert.Equal(t, 3.0, out.Prices[1].Close)
}

func TestPairsAreSeparated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlc.db")
	require.NoError(t, Write(path, model.PriceSeries{Pair: "XXBTZEUR", Prices: samplePoints()}))
	require.NoError(t, Write(path, model.PriceSeries{Pair: "XETHZEUR", Prices: samplePoints()[:1]}))

	eth, err := Read(path, "XETHZEUR")
	require.NoError(t, err)
	assert.Len(t, eth.Prices, 1)

	missing, err := Read(path, "XLTCZEUR")
	require.NoError(t, err)
	assert.Equal(t, "XLTCZEUR", missing.Pair)
	assert.Empty(t, missing.Prices)

	pairs, err := Pairs(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"XXBTZEUR", "XETHZEUR"}, pairs)
}

func TestWrite_EmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlc.db")
	require.NoError(t, Write(path, model.PriceSeries{Pair: "A"}))
	out, err := Read(path, "A")
	require.NoError(t, err)
	assert.Empty(t, out.Prices)
}

func TestStorageErrors(t *testing.T) {
	dir := t.TempDir()

	err := Write(filepath.Join(dir, "x.db"), model.PriceSeries{})
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Op)

	err = Write(filepath.Join(dir, "missing", "x.db"), model.PriceSeries{Pair: "A"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "open", se.Op)
	assert.Contains(t, err.Error(), "missing")
}

func TestRead_NoFileYet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.db")
	out, err := Read(path, "XXBTZEUR")
	require.NoError(t, err)
	assert.Empty(t, out.Prices)
	pairs, err := Pairs(path)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "reading does not create the file")
}

func TestCodec_RejectsWrongWidth(t *testing.T) {
	_, err := decodePoint(make([]byte, pointSize-1))
	assert.Error(t, err)
	assert.Len(t, encodePoint(model.PricePoint{}), 60)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x01, 0x00}, encodeKey(256))
}
