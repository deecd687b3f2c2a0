package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/panakour/shopdal/pkg/shopdal"
)

// Repository implements shopdal.Repository using in-memory storage. It is
// safe for concurrent use, but offers the same non-atomic
// lookup-then-insert surface as any other backend: uniqueness is not
// enforced.
type Repository struct {
	mu              sync.RWMutex
	taxes           map[string]*shopdal.Tax
	manufacturers   map[string]*shopdal.Manufacturer
	categories      map[string]*shopdal.Category
	propertyGroups  map[string]*shopdal.PropertyGroup
	propertyOptions map[string]*shopdal.PropertyOption
	currencies      map[string]*shopdal.Currency
	countries       map[string]*shopdal.Country
	salesChannels   map[string]*shopdal.SalesChannel
	customerGroups  map[string]*shopdal.CustomerGroup
	paymentMethods  map[string]*shopdal.PaymentMethod
	salutations     map[string]*shopdal.Salutation
	media           map[string]*shopdal.Media
	mediaFolders    map[string]*shopdal.MediaFolder
	thumbnailSizes  map[string]*shopdal.MediaThumbnailSize
}

// New creates a new in-memory repository.
func New() shopdal.Repository {
	return &Repository{
		taxes:           make(map[string]*shopdal.Tax),
		manufacturers:   make(map[string]*shopdal.Manufacturer),
		categories:      make(map[string]*shopdal.Category),
		propertyGroups:  make(map[string]*shopdal.PropertyGroup),
		propertyOptions: make(map[string]*shopdal.PropertyOption),
		currencies:      make(map[string]*shopdal.Currency),
		countries:       make(map[string]*shopdal.Country),
		salesChannels:   make(map[string]*shopdal.SalesChannel),
		customerGroups:  make(map[string]*shopdal.CustomerGroup),
		paymentMethods:  make(map[string]*shopdal.PaymentMethod),
		salutations:     make(map[string]*shopdal.Salutation),
		media:           make(map[string]*shopdal.Media),
		mediaFolders:    make(map[string]*shopdal.MediaFolder),
		thumbnailSizes:  make(map[string]*shopdal.MediaThumbnailSize),
	}
}

// Tax operations

func (r *Repository) GetTaxByName(ctx context.Context, name string) (*shopdal.Tax, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tax := range r.taxes {
		if tax.Name == name {
			taxCopy := *tax
			return &taxCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreateTax(ctx context.Context, tax *shopdal.Tax) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	taxCopy := *tax
	r.taxes[tax.ID] = &taxCopy
	return nil
}

// Manufacturer operations

func (r *Repository) GetManufacturerByName(ctx context.Context, name string) (*shopdal.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.manufacturers {
		if m.Name == name {
			mCopy := *m
			return &mCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreateManufacturer(ctx context.Context, manufacturer *shopdal.Manufacturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mCopy := *manufacturer
	r.manufacturers[manufacturer.ID] = &mCopy
	return nil
}

// Category operations

func (r *Repository) GetCategoryByName(ctx context.Context, name string, parentID *string) (*shopdal.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Name != name {
			continue
		}
		if !sameParent(c.ParentID, parentID) {
			continue
		}
		cCopy := *c
		return &cCopy, nil
	}
	return nil, shopdal.ErrNotFound
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *Repository) CreateCategory(ctx context.Context, category *shopdal.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cCopy := *category
	r.categories[category.ID] = &cCopy
	return nil
}

// Property group/option operations

func (r *Repository) GetPropertyGroupByName(ctx context.Context, name string) (*shopdal.PropertyGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.propertyGroups {
		if g.Name == name {
			gCopy := *g
			return &gCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreatePropertyGroup(ctx context.Context, group *shopdal.PropertyGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gCopy := *group
	r.propertyGroups[group.ID] = &gCopy
	return nil
}

func (r *Repository) GetPropertyOptionByName(ctx context.Context, name, groupID string) (*shopdal.PropertyOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.propertyOptions {
		if o.Name == name && o.GroupID == groupID {
			oCopy := *o
			return &oCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreatePropertyOption(ctx context.Context, option *shopdal.PropertyOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oCopy := *option
	r.propertyOptions[option.ID] = &oCopy
	return nil
}

// Reference lookups

func (r *Repository) GetCurrencyByISOCode(ctx context.Context, isoCode string) (*shopdal.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.currencies {
		if c.ISOCode == isoCode {
			cCopy := *c
			return &cCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) GetCountryByISOCode(ctx context.Context, isoCode string) (*shopdal.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.countries {
		if c.ISOCode == isoCode {
			cCopy := *c
			return &cCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) GetSalesChannelByName(ctx context.Context, name string) (*shopdal.SalesChannel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.salesChannels {
		if c.Name == name {
			cCopy := *c
			return &cCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) GetCustomerGroupByName(ctx context.Context, name string) (*shopdal.CustomerGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.customerGroups {
		if g.Name == name {
			gCopy := *g
			return &gCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) GetFirstActivePaymentMethod(ctx context.Context) (*shopdal.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*shopdal.PaymentMethod
	for _, m := range r.paymentMethods {
		if m.Active {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return nil, shopdal.ErrNotFound
	}

	// Sort by name ascending, return the first
	sort.Slice(active, func(i, j int) bool {
		return active[i].Name < active[j].Name
	})
	mCopy := *active[0]
	return &mCopy, nil
}

func (r *Repository) GetSalutationByKey(ctx context.Context, salutationKey string) (*shopdal.Salutation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.salutations {
		if s.SalutationKey == salutationKey {
			sCopy := *s
			return &sCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

// Reference inserts

func (r *Repository) CreateCurrency(ctx context.Context, currency *shopdal.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cCopy := *currency
	r.currencies[currency.ID] = &cCopy
	return nil
}

func (r *Repository) CreateCountry(ctx context.Context, country *shopdal.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cCopy := *country
	r.countries[country.ID] = &cCopy
	return nil
}

func (r *Repository) CreateSalesChannel(ctx context.Context, channel *shopdal.SalesChannel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cCopy := *channel
	r.salesChannels[channel.ID] = &cCopy
	return nil
}

func (r *Repository) CreateCustomerGroup(ctx context.Context, group *shopdal.CustomerGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gCopy := *group
	r.customerGroups[group.ID] = &gCopy
	return nil
}

func (r *Repository) CreatePaymentMethod(ctx context.Context, method *shopdal.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mCopy := *method
	r.paymentMethods[method.ID] = &mCopy
	return nil
}

func (r *Repository) CreateSalutation(ctx context.Context, salutation *shopdal.Salutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sCopy := *salutation
	r.salutations[salutation.ID] = &sCopy
	return nil
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *shopdal.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mCopy := *media
	r.media[media.ID] = &mCopy
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id string) (*shopdal.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, exists := r.media[id]
	if !exists {
		return nil, shopdal.ErrNotFound
	}
	mCopy := *media
	return &mCopy, nil
}

func (r *Repository) GetMediaFolderByName(ctx context.Context, name string) (*shopdal.MediaFolder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.mediaFolders {
		if f.Name == name {
			fCopy := *f
			return &fCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreateMediaFolder(ctx context.Context, folder *shopdal.MediaFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fCopy := *folder
	r.mediaFolders[folder.ID] = &fCopy
	return nil
}

func (r *Repository) GetThumbnailSizeByDimensions(ctx context.Context, width, height int) (*shopdal.MediaThumbnailSize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.thumbnailSizes {
		if s.Width == width && s.Height == height {
			sCopy := *s
			return &sCopy, nil
		}
	}
	return nil, shopdal.ErrNotFound
}

func (r *Repository) CreateThumbnailSize(ctx context.Context, size *shopdal.MediaThumbnailSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sCopy := *size
	r.thumbnailSizes[size.ID] = &sCopy
	return nil
}
