package classify

import (
	"math/rand"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
	"github.com/Ashwin76038/civic-ai/internal/model"
)

func TestCheckpointRoundTrip(t *testing.T) {
	t.Parallel()

	head := NewHead(rand.New(rand.NewSource(11)), backbone.EmbeddingDim)
	path := filepath.Join(t.TempDir(), "pothole_model.ckpt")

	if err := SaveCheckpoint(path, head); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	if loaded.InputDim != head.InputDim {
		t.Fatalf("InputDim = %d, expected %d", loaded.InputDim, head.InputDim)
	}

	// Reloaded inference must be bit-identical to the saved model.
	input := make([]float32, head.InputDim)
	inputRng := rand.New(rand.NewSource(23))
	for i := range input {
		input[i] = inputRng.Float32()
	}

	want := head.Forward(input)
	got := loaded.Forward(input)
	if want != got {
		t.Errorf("reloaded forward pass diverged: %v vs %v", got, want)
	}
}

func TestLoadCheckpointMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "absent.ckpt"))
	if err == nil {
		t.Fatal("LoadCheckpoint succeeded on a missing file")
	}
}

func TestSaveCheckpointBadDir(t *testing.T) {
	t.Parallel()

	head := headWithLogits(2, 0, 0)
	err := SaveCheckpoint(filepath.Join(t.TempDir(), "no-such-dir", "m.ckpt"), head)
	if err == nil {
		t.Fatal("SaveCheckpoint succeeded into a missing directory")
	}
}

func TestLoadRegistryPartial(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	head := headWithLogits(4, 0, 1)
	path := filepath.Join(dir, model.CategoryPothole.CheckpointName())
	if err := SaveCheckpoint(path, head); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	registry := LoadRegistry(dir, zap.NewNop())

	if registry.Len() != 1 {
		t.Fatalf("registry has %d models, expected 1", registry.Len())
	}
	if _, ok := registry.Get(model.CategoryPothole); !ok {
		t.Error("pothole model missing from registry")
	}
	if _, ok := registry.Get(model.CategoryDrainage); ok {
		t.Error("drainage model present without a checkpoint")
	}

	loaded := registry.Loaded()
	if len(loaded) != 1 || loaded[0] != model.CategoryPothole {
		t.Errorf("Loaded() = %v, expected [pothole]", loaded)
	}
}

func TestLoadRegistryEmptyDir(t *testing.T) {
	t.Parallel()

	registry := LoadRegistry(t.TempDir(), zap.NewNop())
	if registry.Len() != 0 {
		t.Errorf("registry has %d models, expected 0", registry.Len())
	}
}
