package shopdal

import (
	"context"
)

// Repository defines the entity-store boundary: per-collection lookup by
// natural key and single-record insert. Lookups return ErrNotFound when no
// record matches. Durability and uniqueness semantics belong to the
// implementation; this package takes no locks of its own.
type Repository interface {
	// Tax operations
	GetTaxByName(ctx context.Context, name string) (*Tax, error)
	CreateTax(ctx context.Context, tax *Tax) error

	// Manufacturer operations
	GetManufacturerByName(ctx context.Context, name string) (*Manufacturer, error)
	CreateManufacturer(ctx context.Context, manufacturer *Manufacturer) error

	// Category operations. ParentID is part of the key: nil matches only
	// root categories.
	GetCategoryByName(ctx context.Context, name string, parentID *string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error

	// Property group/option operations
	GetPropertyGroupByName(ctx context.Context, name string) (*PropertyGroup, error)
	CreatePropertyGroup(ctx context.Context, group *PropertyGroup) error
	GetPropertyOptionByName(ctx context.Context, name, groupID string) (*PropertyOption, error)
	CreatePropertyOption(ctx context.Context, option *PropertyOption) error

	// Reference lookups
	GetCurrencyByISOCode(ctx context.Context, isoCode string) (*Currency, error)
	GetCountryByISOCode(ctx context.Context, isoCode string) (*Country, error)
	GetSalesChannelByName(ctx context.Context, name string) (*SalesChannel, error)
	GetCustomerGroupByName(ctx context.Context, name string) (*CustomerGroup, error)
	// GetFirstActivePaymentMethod returns the lexicographically-first
	// active payment method by name.
	GetFirstActivePaymentMethod(ctx context.Context) (*PaymentMethod, error)
	GetSalutationByKey(ctx context.Context, salutationKey string) (*Salutation, error)

	// Reference inserts. The Dal never calls these; they exist because the
	// entity store supports insert per collection (seeding, fixtures).
	CreateCurrency(ctx context.Context, currency *Currency) error
	CreateCountry(ctx context.Context, country *Country) error
	CreateSalesChannel(ctx context.Context, channel *SalesChannel) error
	CreateCustomerGroup(ctx context.Context, group *CustomerGroup) error
	CreatePaymentMethod(ctx context.Context, method *PaymentMethod) error
	CreateSalutation(ctx context.Context, salutation *Salutation) error

	// Media operations
	CreateMedia(ctx context.Context, media *Media) error
	GetMedia(ctx context.Context, id string) (*Media, error)
	GetMediaFolderByName(ctx context.Context, name string) (*MediaFolder, error)
	CreateMediaFolder(ctx context.Context, folder *MediaFolder) error
	GetThumbnailSizeByDimensions(ctx context.Context, width, height int) (*MediaThumbnailSize, error)
	CreateThumbnailSize(ctx context.Context, size *MediaThumbnailSize) error
}

// SaveMediaFileRequest contains parameters for persisting media bytes.
type SaveMediaFileRequest struct {
	// Path is a local file holding the bytes to persist. The caller owns
	// the file and removes it after the call returns.
	Path string
	// FileName is the desired stored name including extension.
	FileName string
	MimeType string
	// MediaFolderID is empty when the store's default folder applies.
	MediaFolderID string
	// MediaID is the pre-assigned identifier of the media record the bytes
	// belong to.
	MediaID string
}

// FileStore defines the media storage subsystem boundary. Implementations
// persist the bytes at req.Path and associate them with req.MediaID;
// thumbnail generation, if any, happens out of band.
type FileStore interface {
	SaveMediaFile(ctx context.Context, req SaveMediaFileRequest) error
}

// Fetcher retrieves raw bytes from a remote URL. A non-success status,
// network failure or empty body is an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
