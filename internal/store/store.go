package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"KrakenSandbox/internal/model"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

// OpenTimeout bounds how long Write and Read wait for the file lock held by another process.
var OpenTimeout = 5 * time.Second

// StorageError reports an I/O or encoding failure on the store file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Write persists every point of series into the bucket named after its pair, keyed by
// candle time. Points already stored under the same time are overwritten.
func Write(path string, series model.PriceSeries) error {
	if series.Pair == "" {
		return &StorageError{Op: "write", Path: path, Err: errors.New("series has no pair")}
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return &StorageError{Op: "open", Path: path, Err: err}
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(series.Pair))
		if err != nil {
			return err
		}
		for _, p := range series.Prices {
			if err := b.Put(encodeKey(p.Time), encodePoint(p)); err != nil {
				return fmt.Errorf("put %d: %w", p.Time, err)
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	log.Debug().Str("pair", series.Pair).Int("points", series.Len()).Str("path", path).Msg("series stored")
	return nil
}

// Read returns the stored points of pair in key order. A pair that was never written,
// or a store file that does not exist yet, yields an empty series.
func Read(path, pair string) (model.PriceSeries, error) {
	series := model.PriceSeries{Pair: pair, Prices: []model.PricePoint{}}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return series, nil
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: OpenTimeout, ReadOnly: true})
	if err != nil {
		return model.PriceSeries{}, &StorageError{Op: "open", Path: path, Err: err}
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(pair))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			p, err := decodePoint(v)
			if err != nil {
				return fmt.Errorf("decode key %x: %w", k, err)
			}
			series.Prices = append(series.Prices, p)
			return nil
		})
	})
	if err != nil {
		return model.PriceSeries{}, &StorageError{Op: "read", Path: path, Err: err}
	}
	return series, nil
}

// Pairs lists the pairs present in the store. A store file that does not exist yet
// holds no pairs.
func Pairs(path string) ([]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: OpenTimeout, ReadOnly: true})
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	defer db.Close()

	var pairs []string
	err = db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			pairs = append(pairs, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, &StorageError{Op: "list", Path: path, Err: err}
	}
	return pairs, nil
}
