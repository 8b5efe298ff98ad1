package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"KrakenSandbox/internal/model"
)

// pointSize is the encoded width of a PricePoint: time, six float64 fields and count.
const pointSize = 8 + 6*8 + 4

func encodeKey(t int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t))
	return key
}

func encodePoint(p model.PricePoint) []byte {
	buf := make([]byte, pointSize)
	binary.LittleEndian.PutUint64(buf[0:], uint64(p.Time))
	off := 8
	for _, f := range []float64{p.Open, p.High, p.Low, p.Close, p.Vwap, p.Volume} {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(f))
		off += 8
	}
	binary.LittleEndian.PutUint32(buf[off:], p.Count)
	return buf
}

func decodePoint(buf []byte) (model.PricePoint, error) {
	if len(buf) != pointSize {
		return model.PricePoint{}, fmt.Errorf("record is %d bytes, want %d", len(buf), pointSize)
	}
	var p model.PricePoint
	p.Time = int64(binary.LittleEndian.Uint64(buf[0:]))
	off := 8
	for _, dst := range []*float64{&p.Open, &p.High, &p.Low, &p.Close, &p.Vwap, &p.Volume} {
		*dst = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
	}
	p.Count = binary.LittleEndian.Uint32(buf[off:])
	return p, nil
}
