package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"KrakenSandbox/internal/model"
)

// Header is the first row of every exported file.
var Header = []string{"time", "open", "high", "low", "close", "vwap", "volume", "count"}

// WriteCSV writes the series as CSV, one row per point in series order.
func WriteCSV(w io.Writer, series model.PriceSeries) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, p := range series.Prices {
		row := []string{
			strconv.FormatInt(p.Time, 10),
			formatFloat(p.Open),
			formatFloat(p.High),
			formatFloat(p.Low),
			formatFloat(p.Close),
			formatFloat(p.Vwap),
			formatFloat(p.Volume),
			strconv.FormatUint(uint64(p.Count), 10),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile exports the series to <dir>/<pair>.csv, replacing any previous file, and
// returns the path written.
func WriteFile(dir string, series model.PriceSeries) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, series.Pair+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteCSV(file, series); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, file.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
