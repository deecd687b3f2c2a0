package shopdal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product visibility constants for sales channels.
const (
	VisibilityLink   = 10
	VisibilitySearch = 20
	VisibilityAll    = 30
)

// NewID returns a fresh 32-character lowercase hex identifier. Every record
// created by this package receives one before insertion.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Translation holds translated field values keyed by field name, plus the
// language they apply to. Payloads are loosely typed; the underlying store
// validates them.
type Translation map[string]string

// Tax represents a tax rate record.
type Tax struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxRate   float64   `json:"tax_rate"`
	CreatedAt time.Time `json:"created_at"`
}

// Manufacturer represents a product manufacturer. MediaID is empty when no
// logo has been attached.
type Manufacturer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MediaID   string    `json:"media_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Category represents a category node. ParentID is nil for root categories
// and is part of the natural key: the same name may exist under different
// parents.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PropertyGroup represents a property group (e.g. "Color").
type PropertyGroup struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Filterable   bool          `json:"filterable"`
	Position     int           `json:"position"`
	Translations []Translation `json:"translations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PropertyOption represents an option within a property group
// (e.g. "Red" in "Color"). The (Name, GroupID) pair is the natural key.
type PropertyOption struct {
	ID           string            `json:"id"`
	GroupID      string            `json:"group_id"`
	Name         string            `json:"name"`
	Position     int               `json:"position"`
	Type         string            `json:"type,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	Translations []Translation     `json:"translations,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Currency represents a currency record, looked up by ISO code.
type Currency struct {
	ID      string  `json:"id"`
	ISOCode string  `json:"iso_code"`
	Name    string  `json:"name,omitempty"`
	Factor  float64 `json:"factor,omitempty"`
}

// Country represents a country record, looked up by ISO code.
type Country struct {
	ID      string `json:"id"`
	ISOCode string `json:"iso_code"`
	Name    string `json:"name,omitempty"`
}

// SalesChannel represents a sales channel record.
type SalesChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerGroup represents a customer group record.
type CustomerGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentMethod represents a payment method record.
type PaymentMethod struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Salutation represents a salutation record, looked up by its key.
type Salutation struct {
	ID            string `json:"id"`
	SalutationKey string `json:"salutation_key"`
	DisplayName   string `json:"display_name,omitempty"`
}

// Media represents a media asset metadata record. The actual bytes live in
// the FileStore.
type Media struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	FileExtension string    `json:"file_extension"`
	MimeType      string    `json:"mime_type"`
	MediaFolderID string    `json:"media_folder_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MediaFolder represents a named media folder. Its configuration is fixed
// at creation time and never updated by this package.
type MediaFolder struct {
	ID                     string                   `json:"id"`
	Name                   string                   `json:"name"`
	Configuration          MediaFolderConfiguration `json:"configuration"`
	UseParentConfiguration bool                     `json:"use_parent_configuration"`
	Level                  int                      `json:"level"`
	CreatedAt              time.Time                `json:"created_at"`
}

// MediaFolderConfiguration holds thumbnail generation settings for a folder.
type MediaFolderConfiguration struct {
	CreateThumbnails bool               `json:"create_thumbnails"`
	ThumbnailQuality int                `json:"thumbnail_quality"`
	ThumbnailSizes   []ThumbnailSizeRef `json:"media_thumbnail_sizes,omitempty"`
	Private          bool               `json:"private"`
}

// ThumbnailSizeRef references an existing thumbnail size record by ID.
type ThumbnailSizeRef struct {
	ID string `json:"id"`
}

// MediaThumbnailSize represents a thumbnail size record, looked up by its
// (width, height) pair.
type MediaThumbnailSize struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MediaRef is the opaque media reference returned by AssignMedia, shaped
// the way product/manufacturer payloads expect it.
type MediaRef struct {
	MediaID string `json:"mediaId"`
}

// ChannelVisibility pairs a sales channel identifier with a visibility
// marker. SalesChannelID is nil when the named channel does not exist;
// callers must handle that.
type ChannelVisibility struct {
	SalesChannelID *string `json:"sales_channel_id"`
	Visibility     int     `json:"visibility"`
}
