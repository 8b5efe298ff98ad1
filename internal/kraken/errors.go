package kraken

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is wrapped by a DataFormatError when a response carries no candle or trade array.
var ErrNoData = errors.New("no data in response")

// TransportError reports a failed round trip: network failure, unreadable body or a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kraken transport: %s: status %d, body: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("kraken transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataFormatError reports a response whose shape or numeric content could not be converted.
// Field and Value are set when a single field failed to parse.
type DataFormatError struct {
	Pair  string
	Field string
	Value string
	Err   error
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString("kraken data format")
	if e.Pair != "" {
		fmt.Fprintf(&b, " (pair %s)", e.Pair)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s=%q", e.Field, e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// APIError carries the exchange's own error array when it is non-empty.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "kraken api error: " + strings.Join(e.Messages, "; ")
}
