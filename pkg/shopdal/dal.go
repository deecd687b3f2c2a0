package shopdal

import (
	"context"
	"errors"
	"time"
)

// Default natural keys used by the convenience lookups.
const (
	DefaultTaxName           = "Standard rate"
	DefaultCustomerGroupName = "Standard customer group"
	DefaultSalutationKey     = "not_specified"
)

// Dal is the reference-data accessor: lookup, create and first-or-create
// helpers for the reference collections of the entity store.
type Dal struct {
	repository Repository
	media      *MediaService
}

// DalOption represents a functional option for configuring the accessor.
type DalOption func(*Dal)

// WithRepository sets the entity-store repository.
func WithRepository(repo Repository) DalOption {
	return func(d *Dal) {
		d.repository = repo
	}
}

// WithMediaService sets the media service used for manufacturer logo
// ingestion. Without it, CreateManufacturer ignores the Image field.
func WithMediaService(media *MediaService) DalOption {
	return func(d *Dal) {
		d.media = media
	}
}

// New creates a new accessor with the given options.
func New(options ...DalOption) (*Dal, error) {
	d := &Dal{}

	for _, option := range options {
		option(d)
	}

	if d.repository == nil {
		return nil, ErrRepositoryRequired
	}

	return d, nil
}

// notFoundAsNil converts the repository's ErrNotFound sentinel into a plain
// nil result: "not found" is not an error for lookup operations.
func notFoundAsNil(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// GetCurrencyByISOCode returns the currency with the given ISO code, or nil.
func (d *Dal) GetCurrencyByISOCode(ctx context.Context, isoCode string) (*Currency, error) {
	currency, err := d.repository.GetCurrencyByISOCode(ctx, isoCode)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return currency, nil
}

// GetDefaultTax returns the tax named DefaultTaxName, or nil.
func (d *Dal) GetDefaultTax(ctx context.Context) (*Tax, error) {
	return d.GetTaxByName(ctx, DefaultTaxName)
}

// GetTaxByName returns the tax with the given name, or nil.
func (d *Dal) GetTaxByName(ctx context.Context, name string) (*Tax, error) {
	tax, err := d.repository.GetTaxByName(ctx, name)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return tax, nil
}

// CreateTax inserts a new tax rate and returns its identifier.
func (d *Dal) CreateTax(ctx context.Context, req CreateTaxRequest) (string, error) {
	tax := &Tax{
		ID:        NewID(),
		Name:      req.Name,
		TaxRate:   req.TaxRate,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.repository.CreateTax(ctx, tax); err != nil {
		return "", err
	}
	return tax.ID, nil
}

// FirstOrCreateTax returns the identifier of the tax with the requested
// name, creating it when absent. Read-then-write: concurrent callers with
// the same name can race and both create.
func (d *Dal) FirstOrCreateTax(ctx context.Context, req CreateTaxRequest) (string, error) {
	tax, err := d.GetTaxByName(ctx, req.Name)
	if err != nil {
		return "", err
	}
	if tax != nil {
		return tax.ID, nil
	}
	return d.CreateTax(ctx, req)
}

// GetManufacturerByName returns the manufacturer with the given name, or nil.
func (d *Dal) GetManufacturerByName(ctx context.Context, name string) (*Manufacturer, error) {
	manufacturer, err := d.repository.GetManufacturerByName(ctx, name)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return manufacturer, nil
}

// CreateManufacturer inserts a new manufacturer and returns its identifier.
// When req.Image is set and a media service is configured, the image is
// ingested and the first returned reference attached; ingestion errors
// propagate, but an empty result still creates the manufacturer without a
// media reference.
func (d *Dal) CreateManufacturer(ctx context.Context, req CreateManufacturerRequest) (string, error) {
	manufacturer := &Manufacturer{
		ID:        NewID(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	if req.Image != "" && d.media != nil {
		refs, err := d.media.AssignMedia(ctx, []string{req.Image})
		if err != nil {
			return "", err
		}
		if len(refs) > 0 {
			manufacturer.MediaID = refs[0].MediaID
		}
	}

	if err := d.repository.CreateManufacturer(ctx, manufacturer); err != nil {
		return "", err
	}
	return manufacturer.ID, nil
}

// FirstOrCreateManufacturer returns the identifier of the manufacturer
// with the requested name, creating it (with optional logo) when absent.
func (d *Dal) FirstOrCreateManufacturer(ctx context.Context, req CreateManufacturerRequest) (string, error) {
	manufacturer, err := d.GetManufacturerByName(ctx, req.Name)
	if err != nil {
		return "", err
	}
	if manufacturer != nil {
		return manufacturer.ID, nil
	}
	return d.CreateManufacturer(ctx, req)
}

// GetCategoryByName returns the category matching (name, parentID), or nil.
func (d *Dal) GetCategoryByName(ctx context.Context, name string, parentID *string) (*Category, error) {
	category, err := d.repository.GetCategoryByName(ctx, name, parentID)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return category, nil
}

// CreateCategory inserts a new category and returns its identifier.
func (d *Dal) CreateCategory(ctx context.Context, req CreateCategoryRequest) (string, error) {
	category := &Category{
		ID:        NewID(),
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.repository.CreateCategory(ctx, category); err != nil {
		return "", err
	}
	return category.ID, nil
}

// FirstOrCreateCategory returns the identifier of the category matching
// (name, parent), creating it when absent. The parent id is part of the
// key: the same name under two parents yields two records.
func (d *Dal) FirstOrCreateCategory(ctx context.Context, req CreateCategoryRequest) (string, error) {
	category, err := d.GetCategoryByName(ctx, req.Name, req.ParentID)
	if err != nil {
		return "", err
	}
	if category != nil {
		return category.ID, nil
	}
	return d.CreateCategory(ctx, req)
}

// GetPropertyGroupByName returns the property group with the given name, or nil.
func (d *Dal) GetPropertyGroupByName(ctx context.Context, name string) (*PropertyGroup, error) {
	group, err := d.repository.GetPropertyGroupByName(ctx, name)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return group, nil
}

// CreatePropertyGroup inserts a new property group and returns its
// identifier. Description falls back to the group name.
func (d *Dal) CreatePropertyGroup(ctx context.Context, req CreatePropertyGroupRequest) (string, error) {
	description := req.Description
	if description == "" {
		description = req.Name
	}
	group := &PropertyGroup{
		ID:           NewID(),
		Name:         req.Name,
		Description:  description,
		Filterable:   req.Filterable,
		Position:     req.Position,
		Translations: req.Translations,
		CreatedAt:    time.Now().UTC(),
	}
	if err := d.repository.CreatePropertyGroup(ctx, group); err != nil {
		return "", err
	}
	return group.ID, nil
}

// FirstOrCreatePropertyGroup returns the identifier of the property group
// with the requested name, creating it when absent.
func (d *Dal) FirstOrCreatePropertyGroup(ctx context.Context, req CreatePropertyGroupRequest) (string, error) {
	group, err := d.GetPropertyGroupByName(ctx, req.Name)
	if err != nil {
		return "", err
	}
	if group != nil {
		return group.ID, nil
	}
	return d.CreatePropertyGroup(ctx, req)
}

// GetPropertyOptionByName returns the option matching (name, groupID), or nil.
func (d *Dal) GetPropertyOptionByName(ctx context.Context, name, groupID string) (*PropertyOption, error) {
	option, err := d.repository.GetPropertyOptionByName(ctx, name, groupID)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return option, nil
}

// CreatePropertyOption inserts a new property option and returns its
// identifier.
func (d *Dal) CreatePropertyOption(ctx context.Context, req CreatePropertyOptionRequest) (string, error) {
	option := &PropertyOption{
		ID:           NewID(),
		GroupID:      req.GroupID,
		Name:         req.Name,
		Position:     req.Position,
		Type:         req.Type,
		CustomFields: req.CustomFields,
		Translations: req.Translations,
		CreatedAt:    time.Now().UTC(),
	}
	if err := d.repository.CreatePropertyOption(ctx, option); err != nil {
		return "", err
	}
	return option.ID, nil
}

// FirstOrCreatePropertyOption returns the identifier of the option
// matching (name, group), creating it when absent.
func (d *Dal) FirstOrCreatePropertyOption(ctx context.Context, req CreatePropertyOptionRequest) (string, error) {
	option, err := d.GetPropertyOptionByName(ctx, req.Name, req.GroupID)
	if err != nil {
		return "", err
	}
	if option != nil {
		return option.ID, nil
	}
	return d.CreatePropertyOption(ctx, req)
}

// GetSalesChannelByName returns the sales channel with the given name, or nil.
func (d *Dal) GetSalesChannelByName(ctx context.Context, name string) (*SalesChannel, error) {
	channel, err := d.repository.GetSalesChannelByName(ctx, name)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return channel, nil
}

// GetCountryByISOCode returns the country with the given ISO code, or nil.
func (d *Dal) GetCountryByISOCode(ctx context.Context, isoCode string) (*Country, error) {
	country, err := d.repository.GetCountryByISOCode(ctx, isoCode)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return country, nil
}

// GetCustomerGroup returns the customer group with the given name, or nil.
// An empty name looks up DefaultCustomerGroupName.
func (d *Dal) GetCustomerGroup(ctx context.Context, name string) (*CustomerGroup, error) {
	if name == "" {
		name = DefaultCustomerGroupName
	}
	group, err := d.repository.GetCustomerGroupByName(ctx, name)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return group, nil
}

// GetFirstActivePaymentMethod returns the active payment method that sorts
// first by name ascending, or nil when none is active.
func (d *Dal) GetFirstActivePaymentMethod(ctx context.Context) (*PaymentMethod, error) {
	method, err := d.repository.GetFirstActivePaymentMethod(ctx)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return method, nil
}

// GetSalutation returns the salutation with the given key, or nil. An
// empty key looks up DefaultSalutationKey.
func (d *Dal) GetSalutation(ctx context.Context, salutationKey string) (*Salutation, error) {
	if salutationKey == "" {
		salutationKey = DefaultSalutationKey
	}
	salutation, err := d.repository.GetSalutationByKey(ctx, salutationKey)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return salutation, nil
}

// ChannelVisibilityAll pairs the identifier of the named sales channel
// with the "visible everywhere" marker. SalesChannelID is nil when the
// channel does not exist.
func (d *Dal) ChannelVisibilityAll(ctx context.Context, channelName string) (ChannelVisibility, error) {
	visibility := ChannelVisibility{Visibility: VisibilityAll}

	channel, err := d.GetSalesChannelByName(ctx, channelName)
	if err != nil {
		return visibility, err
	}
	if channel != nil {
		visibility.SalesChannelID = &channel.ID
	}
	return visibility, nil
}
