package model

import "fmt"

// Category is one fixed class of civic issue. Each category has its own
// independently trained binary classifier; the set is closed and
// case-sensitive at every boundary.
type Category string

const (
	CategoryDrainage     Category = "drainage"
	CategoryPothole      Category = "pothole"
	CategoryGarbageWaste Category = "garbage_waste"
)

// Categories returns the closed enumeration in a stable order.
func Categories() []Category {
	return []Category{CategoryDrainage, CategoryPothole, CategoryGarbageWaste}
}

// ParseCategory maps a raw request string onto the enumeration. The match
// is exact: no trimming, no case folding.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDrainage, CategoryPothole, CategoryGarbageWaste:
		return Category(s), nil
	}
	return "", &InvalidCategoryError{Name: s}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// CheckpointName returns the checkpoint filename for this category's model.
func (c Category) CheckpointName() string {
	return fmt.Sprintf("%s_model.ckpt", string(c))
}
