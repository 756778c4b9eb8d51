package models

// Category is the closed set of expense categories. It is shared by
// request validation, the storage schema, and aggregation grouping;
// adding a value requires a schema migration.
type Category string

const (
	CategoryGroceries   Category = "Groceries"
	CategoryLeisure     Category = "Leisure"
	CategoryElectronics Category = "Electronics"
	CategoryUtilities   Category = "Utilities"
	CategoryClothing    Category = "Clothing"
	CategoryHealth      Category = "Health"
	CategoryOther       Category = "Other"
)

// Categories lists every permitted category value.
var Categories = []Category{
	CategoryGroceries,
	CategoryLeisure,
	CategoryElectronics,
	CategoryUtilities,
	CategoryClothing,
	CategoryHealth,
	CategoryOther,
}

// IsValid reports whether c is a member of the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGroceries, CategoryLeisure, CategoryElectronics,
		CategoryUtilities, CategoryClothing, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// ParseCategory maps a raw string to a Category, falling back to Other
// for empty or unknown values.
func ParseCategory(s string) Category {
	c := Category(s)
	if !c.IsValid() {
		return CategoryOther
	}
	return c
}
