package enums

import "fmt"

// GarmentCategory is the fixed set of catalog categories.
type GarmentCategory string

const (
	GarmentCategoryShirts      GarmentCategory = "SHIRTS"
	GarmentCategoryKurta       GarmentCategory = "KURTA"
	GarmentCategoryModiJacket  GarmentCategory = "MODIJACKET"
	GarmentCategoryEndoWestern GarmentCategory = "ENDOWESTERN"
)

var validGarmentCategories = []GarmentCategory{
	GarmentCategoryShirts,
	GarmentCategoryKurta,
	GarmentCategoryModiJacket,
	GarmentCategoryEndoWestern,
}

// String implements fmt.Stringer.
func (c GarmentCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is recognized.
func (c GarmentCategory) IsValid() bool {
	for _, candidate := range validGarmentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseGarmentCategory converts a raw string into a GarmentCategory.
func ParseGarmentCategory(value string) (GarmentCategory, error) {
	for _, candidate := range validGarmentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// GarmentSize is the fixed set of sellable sizes.
type GarmentSize string

const (
	GarmentSizeS   GarmentSize = "S"
	GarmentSizeM   GarmentSize = "M"
	GarmentSizeL   GarmentSize = "L"
	GarmentSizeXL  GarmentSize = "XL"
	GarmentSizeXXL GarmentSize = "XXL"
)

var validGarmentSizes = []GarmentSize{
	GarmentSizeS,
	GarmentSizeM,
	GarmentSizeL,
	GarmentSizeXL,
	GarmentSizeXXL,
}

// String implements fmt.Stringer.
func (s GarmentSize) String() string {
	return string(s)
}

// IsValid reports whether the size is recognized.
func (s GarmentSize) IsValid() bool {
	for _, candidate := range validGarmentSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGarmentSize converts a raw string into a GarmentSize.
func ParseGarmentSize(value string) (GarmentSize, error) {
	for _, candidate := range validGarmentSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size %q", value)
}
