package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panakour/shopdal/pkg/shopdal"
)

func TestTaxRoundTrip(t *testing.T) {
	repo := New()
	ctx := context.Background()

	tax := &shopdal.Tax{ID: shopdal.NewID(), Name: "Standard rate", TaxRate: 19}
	require.NoError(t, repo.CreateTax(ctx, tax))

	got, err := repo.GetTaxByName(ctx, "Standard rate")
	require.NoError(t, err)
	assert.Equal(t, tax.ID, got.ID)
	assert.Equal(t, 19.0, got.TaxRate)

	_, err = repo.GetTaxByName(ctx, "missing")
	assert.ErrorIs(t, err, shopdal.ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	repo := New()
	ctx := context.Background()

	tax := &shopdal.Tax{ID: shopdal.NewID(), Name: "Standard rate", TaxRate: 19}
	require.NoError(t, repo.CreateTax(ctx, tax))

	got, err := repo.GetTaxByName(ctx, "Standard rate")
	require.NoError(t, err)

	// Mutating the returned record must not affect the stored one.
	got.TaxRate = 7

	again, err := repo.GetTaxByName(ctx, "Standard rate")
	require.NoError(t, err)
	assert.Equal(t, 19.0, again.TaxRate)
}

func TestCategoryParentKey(t *testing.T) {
	repo := New()
	ctx := context.Background()

	parentA := shopdal.NewID()
	parentB := shopdal.NewID()

	root := &shopdal.Category{ID: shopdal.NewID(), Name: "Shoes"}
	underA := &shopdal.Category{ID: shopdal.NewID(), Name: "Shoes", ParentID: &parentA}
	underB := &shopdal.Category{ID: shopdal.NewID(), Name: "Shoes", ParentID: &parentB}
	for _, c := range []*shopdal.Category{root, underA, underB} {
		require.NoError(t, repo.CreateCategory(ctx, c))
	}

	got, err := repo.GetCategoryByName(ctx, "Shoes", nil)
	require.NoError(t, err)
	assert.Equal(t, root.ID, got.ID)

	got, err = repo.GetCategoryByName(ctx, "Shoes", &parentA)
	require.NoError(t, err)
	assert.Equal(t, underA.ID, got.ID)

	got, err = repo.GetCategoryByName(ctx, "Shoes", &parentB)
	require.NoError(t, err)
	assert.Equal(t, underB.ID, got.ID)

	unknown := shopdal.NewID()
	_, err = repo.GetCategoryByName(ctx, "Shoes", &unknown)
	assert.ErrorIs(t, err, shopdal.ErrNotFound)
}

func TestPropertyOptionScopedToGroup(t *testing.T) {
	repo := New()
	ctx := context.Background()

	groupA := shopdal.NewID()
	groupB := shopdal.NewID()

	option := &shopdal.PropertyOption{ID: shopdal.NewID(), GroupID: groupA, Name: "Red"}
	require.NoError(t, repo.CreatePropertyOption(ctx, option))

	got, err := repo.GetPropertyOptionByName(ctx, "Red", groupA)
	require.NoError(t, err)
	assert.Equal(t, option.ID, got.ID)

	_, err = repo.GetPropertyOptionByName(ctx, "Red", groupB)
	assert.ErrorIs(t, err, shopdal.ErrNotFound)
}

func TestGetFirstActivePaymentMethod(t *testing.T) {
	repo := New()
	ctx := context.Background()

	_, err := repo.GetFirstActivePaymentMethod(ctx)
	assert.ErrorIs(t, err, shopdal.ErrNotFound)

	methods := []*shopdal.PaymentMethod{
		{ID: shopdal.NewID(), Name: "Advance payment", Active: false},
		{ID: shopdal.NewID(), Name: "Invoice", Active: true},
		{ID: shopdal.NewID(), Name: "Cash on delivery", Active: true},
	}
	for _, m := range methods {
		require.NoError(t, repo.CreatePaymentMethod(ctx, m))
	}

	got, err := repo.GetFirstActivePaymentMethod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cash on delivery", got.Name)
}

func TestMediaFolderRoundTrip(t *testing.T) {
	repo := New()
	ctx := context.Background()

	folder := &shopdal.MediaFolder{
		ID:   shopdal.NewID(),
		Name: "product_media",
		Configuration: shopdal.MediaFolderConfiguration{
			CreateThumbnails: true,
			ThumbnailQuality: 80,
		},
		Level: 1,
	}
	require.NoError(t, repo.CreateMediaFolder(ctx, folder))

	got, err := repo.GetMediaFolderByName(ctx, "product_media")
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.ID)
	assert.True(t, got.Configuration.CreateThumbnails)
}

func TestThumbnailSizeByDimensions(t *testing.T) {
	repo := New()
	ctx := context.Background()

	size := &shopdal.MediaThumbnailSize{ID: shopdal.NewID(), Width: 500, Height: 500}
	require.NoError(t, repo.CreateThumbnailSize(ctx, size))

	got, err := repo.GetThumbnailSizeByDimensions(ctx, 500, 500)
	require.NoError(t, err)
	assert.Equal(t, size.ID, got.ID)

	_, err = repo.GetThumbnailSizeByDimensions(ctx, 300, 300)
	assert.ErrorIs(t, err, shopdal.ErrNotFound)
}

func TestReferenceLookupsByNaturalKey(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateCurrency(ctx, &shopdal.Currency{ID: shopdal.NewID(), ISOCode: "EUR", Name: "Euro", Factor: 1}))
	require.NoError(t, repo.CreateCountry(ctx, &shopdal.Country{ID: shopdal.NewID(), ISOCode: "DE", Name: "Germany"}))
	require.NoError(t, repo.CreateSalesChannel(ctx, &shopdal.SalesChannel{ID: shopdal.NewID(), Name: "Storefront"}))
	require.NoError(t, repo.CreateCustomerGroup(ctx, &shopdal.CustomerGroup{ID: shopdal.NewID(), Name: "Standard customer group"}))
	require.NoError(t, repo.CreateSalutation(ctx, &shopdal.Salutation{ID: shopdal.NewID(), SalutationKey: "not_specified"}))

	currency, err := repo.GetCurrencyByISOCode(ctx, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "Euro", currency.Name)

	country, err := repo.GetCountryByISOCode(ctx, "DE")
	require.NoError(t, err)
	assert.Equal(t, "Germany", country.Name)

	channel, err := repo.GetSalesChannelByName(ctx, "Storefront")
	require.NoError(t, err)
	assert.NotEmpty(t, channel.ID)

	group, err := repo.GetCustomerGroupByName(ctx, "Standard customer group")
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)

	salutation, err := repo.GetSalutationByKey(ctx, "not_specified")
	require.NoError(t, err)
	assert.NotEmpty(t, salutation.ID)
}
