package shopdal

// Request DTOs for create and first-or-create operations. Optional fields
// (parent id, image, translations, custom fields) are included in the
// insert payload only when set.

// CreateTaxRequest contains parameters for creating a tax rate. No range
// validation is performed; malformed rates are the store's problem.
type CreateTaxRequest struct {
	Name    string
	TaxRate float64
}

// CreateManufacturerRequest contains parameters for creating a
// manufacturer. Image, when non-empty, is an HTTP URL or base64 image
// source ingested through the media service; the resulting reference is
// attached to the manufacturer. If ingestion yields no reference the
// manufacturer is created without one.
type CreateManufacturerRequest struct {
	Name  string
	Image string
}

// CreateCategoryRequest contains parameters for creating a category.
// ParentID nil creates a root category.
type CreateCategoryRequest struct {
	Name     string
	ParentID *string
}

// CreatePropertyGroupRequest contains parameters for creating a property
// group. Description defaults to the name when empty.
type CreatePropertyGroupRequest struct {
	Name         string
	Description  string
	Filterable   bool
	Position     int
	Translations []Translation
}

// CreatePropertyOptionRequest contains parameters for creating a property
// option within a group.
type CreatePropertyOptionRequest struct {
	Name         string
	GroupID      string
	Type         string
	CustomFields map[string]string
	Position     int
	Translations []Translation
}
