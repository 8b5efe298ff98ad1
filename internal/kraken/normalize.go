package kraken

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"KrakenSandbox/internal/model"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// envelope is the outer shape shared by every public endpoint.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// RawPricePoint is one candle as Kraken sends it:
//
//	[1688671200, "30306.1", "30306.2", "30305.7", "30306.1", "30306.0", "3.39243896", 23]
type RawPricePoint struct {
	Time   int64  `json:"time" validate:"gt=0"`
	Open   string `json:"open" validate:"required,numeric"`
	High   string `json:"high" validate:"required,numeric"`
	Low    string `json:"low" validate:"required,numeric"`
	Close  string `json:"close" validate:"required,numeric"`
	Vwap   string `json:"vwap" validate:"required,numeric"`
	Volume string `json:"volume" validate:"required,numeric"`
	Count  uint32 `json:"count"`
}

// UnmarshalJSON decodes the positional array form of a candle.
func (r *RawPricePoint) UnmarshalJSON(b []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if len(fields) < 8 {
		return fmt.Errorf("candle has %d fields, want 8", len(fields))
	}
	if err := json.Unmarshal(fields[0], &r.Time); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	text := []*string{&r.Open, &r.High, &r.Low, &r.Close, &r.Vwap, &r.Volume}
	for i, dst := range text {
		if err := json.Unmarshal(fields[i+1], dst); err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	if err := json.Unmarshal(fields[7], &r.Count); err != nil {
		return fmt.Errorf("count: %w", err)
	}
	return nil
}

// toPricePoint validates the wire record and parses its decimal text fields.
func (r RawPricePoint) toPricePoint(pair string) (model.PricePoint, error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return model.PricePoint{}, &DataFormatError{
				Pair:  pair,
				Field: fe.Field(),
				Value: fmt.Sprint(fe.Value()),
				Err:   fmt.Errorf("failed %q check", fe.Tag()),
			}
		}
		return model.PricePoint{}, &DataFormatError{Pair: pair, Err: err}
	}

	p := model.PricePoint{Time: r.Time, Count: r.Count}
	fields := []struct {
		name string
		text string
		dst  *float64
	}{
		{"open", r.Open, &p.Open},
		{"high", r.High, &p.High},
		{"low", r.Low, &p.Low},
		{"close", r.Close, &p.Close},
		{"vwap", r.Vwap, &p.Vwap},
		{"volume", r.Volume, &p.Volume},
	}
	for _, f := range fields {
		v, err := parseDecimal(pair, f.name, f.text)
		if err != nil {
			return model.PricePoint{}, err
		}
		*f.dst = v
	}
	return p, nil
}

// parseDecimal converts decimal text to a finite float64.
func parseDecimal(pair, field, text string) (float64, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, &DataFormatError{Pair: pair, Field: field, Value: text, Err: err}
	}
	v, _ := d.Float64()
	if math.IsInf(v, 0) {
		return 0, &DataFormatError{Pair: pair, Field: field, Value: text, Err: errors.New("out of float64 range")}
	}
	return v, nil
}

// NormalizeOHLC converts an OHLC response body into a PriceSeries tagged with pair.
// The first array-valued entry of "result" is used; scalar entries such as the "last"
// cursor are skipped. Any unparsable candle fails the whole conversion.
func NormalizeOHLC(pair string, body []byte) (model.PriceSeries, error) {
	arr, err := resultArray(pair, body)
	if err != nil {
		return model.PriceSeries{}, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(arr, &raws); err != nil {
		return model.PriceSeries{}, &DataFormatError{Pair: pair, Err: err}
	}

	prices := make([]model.PricePoint, 0, len(raws))
	for i, raw := range raws {
		var rp RawPricePoint
		if err := json.Unmarshal(raw, &rp); err != nil {
			return model.PriceSeries{}, &DataFormatError{Pair: pair, Field: fmt.Sprintf("candle[%d]", i), Value: string(raw), Err: err}
		}
		p, err := rp.toPricePoint(pair)
		if err != nil {
			return model.PriceSeries{}, err
		}
		prices = append(prices, p)
	}
	return model.PriceSeries{Pair: pair, Prices: prices}, nil
}

// ParseLatestPrice extracts the price of the first trade in a Trades response body.
func ParseLatestPrice(pair string, body []byte) (float64, error) {
	arr, err := resultArray(pair, body)
	if err != nil {
		return 0, err
	}

	var trades [][]json.RawMessage
	if err := json.Unmarshal(arr, &trades); err != nil {
		return 0, &DataFormatError{Pair: pair, Err: err}
	}
	if len(trades) == 0 || len(trades[0]) == 0 {
		return 0, &DataFormatError{Pair: pair, Err: ErrNoData}
	}

	var text string
	if err := json.Unmarshal(trades[0][0], &text); err != nil {
		return 0, &DataFormatError{Pair: pair, Field: "price", Value: string(trades[0][0]), Err: err}
	}
	return parseDecimal(pair, "price", text)
}

func resultArray(pair string, body []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DataFormatError{Pair: pair, Err: err}
	}
	arr, err := firstArray(env.Result)
	if err != nil {
		return nil, &DataFormatError{Pair: pair, Err: err}
	}
	if arr == nil {
		return nil, &DataFormatError{Pair: pair, Err: ErrNoData}
	}
	return arr, nil
}

// firstArray walks the keys of a JSON object in document order and returns the first
// array value. It returns nil when obj is empty, null, not an object, or has no array.
func firstArray(obj []byte) ([]byte, error) {
	obj = bytes.TrimSpace(obj)
	if len(obj) == 0 || obj[0] != '{' {
		return nil, nil
	}
	dec := stdjson.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var v stdjson.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if v = bytes.TrimSpace(v); len(v) > 0 && v[0] == '[' {
			return v, nil
		}
	}
	return nil, nil
}
