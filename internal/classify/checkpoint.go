package classify

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// checkpointState is the on-disk form of a trained head. gob preserves
// float bits exactly, so a saved head reloads to bit-identical inference.
type checkpointState struct {
	InputDim int
	W1       []float32
	B1       []float32
	W2       []float32
	B2       []float32
}

// SaveCheckpoint persists h atomically: the state is written to a temp
// file in the target directory, synced, then renamed over the final path.
// A crash mid-write can never leave a truncated checkpoint behind.
func SaveCheckpoint(path string, h *Head) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ckpt-*")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	state := checkpointState{
		InputDim: h.InputDim,
		W1:       h.W1,
		B1:       h.B1,
		W2:       h.W2,
		B2:       h.B2,
	}
	if err := gob.NewEncoder(tmp).Encode(state); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a head saved by SaveCheckpoint.
func LoadCheckpoint(path string) (*Head, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var state checkpointState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", path, err)
	}

	if len(state.W1) != HiddenDim*state.InputDim || len(state.W2) != OutputDim*HiddenDim {
		return nil, fmt.Errorf("checkpoint %s has inconsistent parameter shapes", path)
	}

	return &Head{
		InputDim: state.InputDim,
		W1:       state.W1,
		B1:       state.B1,
		W2:       state.W2,
		B2:       state.B2,
	}, nil
}
