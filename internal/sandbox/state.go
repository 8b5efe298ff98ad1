package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"KrakenSandbox/internal/model"

	json "github.com/goccy/go-json"
)

// LoadState reads a ledger state from a JSON file. A missing file yields a zero state.
func LoadState(filePath string) (*model.LedgerState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &model.LedgerState{Holdings: map[string]float64{}}, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", filePath, err)
	}
	if state.Holdings == nil {
		state.Holdings = map[string]float64{}
	}
	return &state, nil
}

// SaveState writes the ledger state to a JSON file.
func SaveState(filePath string, state *model.LedgerState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
