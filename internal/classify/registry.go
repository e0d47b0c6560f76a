package classify

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// Registry maps categories to their loaded heads. It is populated once at
// startup and immutable afterwards, which makes concurrent lookups safe
// without locking.
type Registry struct {
	heads map[model.Category]*Head
}

// NewRegistry builds a registry from an explicit map. Used by tests and
// anywhere a partial registry is wanted.
func NewRegistry(heads map[model.Category]*Head) *Registry {
	copied := make(map[model.Category]*Head, len(heads))
	for c, h := range heads {
		copied[c] = h
	}
	return &Registry{heads: copied}
}

// LoadRegistry attempts to load a checkpoint for every category in the
// enumeration from dir. A missing or unreadable checkpoint is logged and
// that category stays absent; startup proceeds so partially trained
// deployments can still serve the categories they have.
func LoadRegistry(dir string, logger *zap.Logger) *Registry {
	heads := make(map[model.Category]*Head)
	for _, category := range model.Categories() {
		path := filepath.Join(dir, category.CheckpointName())
		head, err := LoadCheckpoint(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Error("model checkpoint not found",
					zap.String("category", category.String()),
					zap.String("path", path))
			} else {
				logger.Error("failed to load model checkpoint",
					zap.String("category", category.String()),
					zap.String("path", path),
					zap.Error(err))
			}
			continue
		}
		heads[category] = head
		logger.Info("loaded model",
			zap.String("category", category.String()),
			zap.String("path", path))
	}
	return &Registry{heads: heads}
}

// Get returns the head for a category, if one was loaded.
func (r *Registry) Get(category model.Category) (*Head, bool) {
	head, ok := r.heads[category]
	return head, ok
}

// Loaded lists the categories that have a model, in enumeration order.
func (r *Registry) Loaded() []model.Category {
	var loaded []model.Category
	for _, category := range model.Categories() {
		if _, ok := r.heads[category]; ok {
			loaded = append(loaded, category)
		}
	}
	return loaded
}

// Len reports how many categories have a loaded model.
func (r *Registry) Len() int {
	return len(r.heads)
}
