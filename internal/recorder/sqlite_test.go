package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"KrakenSandbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_Trades(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer r.Close()

	base := time.UnixMilli(1688671200000)
	buy := &model.Fill{ID: "a", Pair: "XXBTZEUR", Side: model.SideBuy, Requested: 0.01, Amount: 0.01, Price: 30000, Value: 300, Time: base}
	sell := &model.Fill{ID: "b", Pair: "XXBTZEUR", Side: model.SideSell, Requested: 0.02, Amount: 0.01, Price: 31000, Value: 310, Time: base.Add(time.Minute)}
	require.NoError(t, r.RecordTrade(buy))
	require.NoError(t, r.RecordTrade(sell))

	fills, err := r.RecentTrades(10)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, "b", fills[0].ID, "newest first")
	assert.Equal(t, model.SideSell, fills[0].Side)
	assert.Equal(t, 0.02, fills[0].Requested)
	assert.Equal(t, 0.01, fills[0].Amount)
	assert.True(t, fills[0].Time.Equal(sell.Time))
	assert.Equal(t, "a", fills[1].ID)
	assert.Equal(t, 300.0, fills[1].Value)

	limited, err := r.RecentTrades(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.Error(t, r.RecordTrade(buy), "fill ids are unique")
}

func TestSQLiteRecorder_ReopenKeepsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordTrade(&model.Fill{ID: "x", Pair: "XETHZEUR", Side: model.SideBuy, Time: time.Now()}))
	require.NoError(t, r.RecordCollection(&CollectionEvent{Pair: "XETHZEUR", Interval: 60, Candles: 720}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	fills, err := r.RecentTrades(5)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "XETHZEUR", fills[0].Pair)

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM collections WHERE pair = ? AND candles = 720`, "XETHZEUR").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordTrade(&model.Fill{}))
	fills, err := r.RecentTrades(3)
	assert.NoError(t, err)
	assert.Empty(t, fills)
	assert.NoError(t, r.Close())
}
