package enums

import "fmt"

// Category identifies a catalog product category.
type Category string

const (
	CategoryBakery    Category = "bakery"
	CategoryFruits    Category = "fruits"
	CategoryPersonal  Category = "personal"
	CategorySnacks    Category = "snacks"
	CategoryBeverages Category = "beverages"
)

// CategoryAll is the sentinel preference meaning "no category filter".
// It is not a valid category for an inventory item itself.
const CategoryAll = "all"

var validCategories = []Category{
	CategoryBakery,
	CategoryFruits,
	CategoryPersonal,
	CategorySnacks,
	CategoryBeverages,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
