package valueobject

import "fmt"

// Category is an immutable value object bucketing a stress score into an ordinal band.
type Category struct {
	value string
}

var (
	CategoryLow    = Category{value: "Low"}
	CategoryMedium = Category{value: "Medium"}
	CategoryHigh   = Category{value: "High"}
)

// CategoryFromString reconstructs a Category from its string representation.
func CategoryFromString(s string) (Category, error) {
	switch s {
	case "Low":
		return CategoryLow, nil
	case "Medium":
		return CategoryMedium, nil
	case "High":
		return CategoryHigh, nil
	default:
		return Category{}, fmt.Errorf("invalid category: %s", s)
	}
}

// CategoryFromScore buckets a clamped score using two inclusive-low thresholds:
// score < mediumFrom is Low, mediumFrom <= score < highFrom is Medium, otherwise High.
func CategoryFromScore(score, mediumFrom, highFrom float64) Category {
	switch {
	case score < mediumFrom:
		return CategoryLow
	case score < highFrom:
		return CategoryMedium
	default:
		return CategoryHigh
	}
}

// String returns the string representation.
func (c Category) String() string {
	return c.value
}

// IsZero returns true if the Category has not been set.
func (c Category) IsZero() bool {
	return c.value == ""
}

// Equal checks equality with another Category.
func (c Category) Equal(other Category) bool {
	return c.value == other.value
}

// IsHigh returns true if the category is High.
func (c Category) IsHigh() bool {
	return c.value == "High"
}
