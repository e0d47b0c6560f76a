// Package training implements the offline per-category training loop:
// binary relabeling of the shared multi-class dataset, weighted sampling,
// augmented mini-batch gradient descent over frozen backbone embeddings,
// plateau learning-rate reduction and validation-driven early stopping.
package training

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// Sample is one labeled image from the multi-class source dataset.
type Sample struct {
	Path     string
	Category model.Category
}

// Dataset is an ImageFolder-style split: <root>/<split>/<category>/*.
// Train and validation splits are pre-partitioned on disk; the same
// multi-class tree is relabeled per category, so nothing is stored twice.
type Dataset struct {
	Samples []Sample
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
}

// LoadDataset scans one split directory. Every category in the
// enumeration must have a directory; empty categories are allowed but a
// missing split root is an error.
func LoadDataset(root, split string) (*Dataset, error) {
	splitDir := filepath.Join(root, split)
	if _, err := os.Stat(splitDir); err != nil {
		return nil, fmt.Errorf("dataset split %s not found: %w", splitDir, err)
	}

	dataset := &Dataset{}
	for _, category := range model.Categories() {
		categoryDir := filepath.Join(splitDir, category.String())
		entries, err := os.ReadDir(categoryDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read category directory %s: %w", categoryDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			dataset.Samples = append(dataset.Samples, Sample{
				Path:     filepath.Join(categoryDir, entry.Name()),
				Category: category,
			})
		}
	}

	if len(dataset.Samples) == 0 {
		return nil, fmt.Errorf("dataset split %s contains no images", splitDir)
	}
	return dataset, nil
}

// Len returns the number of samples in the split.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// BinarySample is a sample relabeled for one target category: label 1
// when the true category matches the target, 0 otherwise.
type BinarySample struct {
	Path  string
	Label int
}

// Binary derives the one-vs-rest view of the dataset for target.
func (d *Dataset) Binary(target model.Category) []BinarySample {
	binary := make([]BinarySample, len(d.Samples))
	for i, s := range d.Samples {
		label := 0
		if s.Category == target {
			label = 1
		}
		binary[i] = BinarySample{Path: s.Path, Label: label}
	}
	return binary
}
