package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/panakour/shopdal/pkg/shopdal"
)

// DBTX is an interface that allows us to use either a database connection
// or a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements shopdal.Repository using PostgreSQL. Uniqueness of
// natural keys is whatever the schema enforces; this layer adds none.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository.
func New(db DBTX) shopdal.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool.
func NewWithPool(pool *pgxpool.Pool) shopdal.Repository {
	return &Repository{db: pool}
}

// handlePostgresError classifies common postgres failures into readable
// errors; constraint violations pass through so callers can react to them.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s: %s", operation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Tax operations

func (r *Repository) GetTaxByName(ctx context.Context, name string) (*shopdal.Tax, error) {
	query := `SELECT id, name, tax_rate, created_at FROM tax WHERE name = $1 LIMIT 1`

	var tax shopdal.Tax
	err := r.db.QueryRow(ctx, query, name).Scan(&tax.ID, &tax.Name, &tax.TaxRate, &tax.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get tax", err)
	}
	return &tax, nil
}

func (r *Repository) CreateTax(ctx context.Context, tax *shopdal.Tax) error {
	query := `INSERT INTO tax (id, name, tax_rate, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, tax.ID, tax.Name, tax.TaxRate, tax.CreatedAt); err != nil {
		return handlePostgresError("create tax", err)
	}
	return nil
}

// Manufacturer operations

func (r *Repository) GetManufacturerByName(ctx context.Context, name string) (*shopdal.Manufacturer, error) {
	query := `
        SELECT id, name, COALESCE(media_id, ''), created_at
        FROM product_manufacturer WHERE name = $1 LIMIT 1`

	var m shopdal.Manufacturer
	err := r.db.QueryRow(ctx, query, name).Scan(&m.ID, &m.Name, &m.MediaID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get manufacturer", err)
	}
	return &m, nil
}

func (r *Repository) CreateManufacturer(ctx context.Context, manufacturer *shopdal.Manufacturer) error {
	query := `
		INSERT INTO product_manufacturer (id, name, media_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)`

	_, err := r.db.Exec(ctx, query,
		manufacturer.ID, manufacturer.Name, manufacturer.MediaID, manufacturer.CreatedAt)
	if err != nil {
		return handlePostgresError("create manufacturer", err)
	}
	return nil
}

// Category operations

func (r *Repository) GetCategoryByName(ctx context.Context, name string, parentID *string) (*shopdal.Category, error) {
	// Separate statements because NULL never compares equal: nil parent
	// matches only root categories.
	var (
		row pgx.Row
	)
	if parentID == nil {
		row = r.db.QueryRow(ctx, `
            SELECT id, name, parent_id, created_at
            FROM category WHERE name = $1 AND parent_id IS NULL LIMIT 1`, name)
	} else {
		row = r.db.QueryRow(ctx, `
            SELECT id, name, parent_id, created_at
            FROM category WHERE name = $1 AND parent_id = $2 LIMIT 1`, name, *parentID)
	}

	var c shopdal.Category
	if err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get category", err)
	}
	return &c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *shopdal.Category) error {
	query := `INSERT INTO category (id, name, parent_id, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		category.ID, category.Name, category.ParentID, category.CreatedAt)
	if err != nil {
		return handlePostgresError("create category", err)
	}
	return nil
}

// Property group/option operations

func (r *Repository) GetPropertyGroupByName(ctx context.Context, name string) (*shopdal.PropertyGroup, error) {
	query := `
        SELECT id, name, COALESCE(description, ''), filterable, position, translations, created_at
        FROM property_group WHERE name = $1 LIMIT 1`

	var (
		g            shopdal.PropertyGroup
		translations []byte
	)
	err := r.db.QueryRow(ctx, query, name).Scan(
		&g.ID, &g.Name, &g.Description, &g.Filterable, &g.Position, &translations, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get property group", err)
	}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &g.Translations); err != nil {
			return nil, fmt.Errorf("decode property group translations: %w", err)
		}
	}
	return &g, nil
}

func (r *Repository) CreatePropertyGroup(ctx context.Context, group *shopdal.PropertyGroup) error {
	translations, err := marshalOrNil(group.Translations)
	if err != nil {
		return fmt.Errorf("encode property group translations: %w", err)
	}

	query := `
		INSERT INTO property_group (id, name, description, filterable, position, translations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		group.ID, group.Name, group.Description, group.Filterable,
		group.Position, translations, group.CreatedAt)
	if err != nil {
		return handlePostgresError("create property group", err)
	}
	return nil
}

func (r *Repository) GetPropertyOptionByName(ctx context.Context, name, groupID string) (*shopdal.PropertyOption, error) {
	query := `
        SELECT id, group_id, name, position, COALESCE(type, ''), custom_fields, translations, created_at
        FROM property_group_option WHERE name = $1 AND group_id = $2 LIMIT 1`

	var (
		o            shopdal.PropertyOption
		customFields []byte
		translations []byte
	)
	err := r.db.QueryRow(ctx, query, name, groupID).Scan(
		&o.ID, &o.GroupID, &o.Name, &o.Position, &o.Type, &customFields, &translations, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get property option", err)
	}
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &o.CustomFields); err != nil {
			return nil, fmt.Errorf("decode property option custom fields: %w", err)
		}
	}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &o.Translations); err != nil {
			return nil, fmt.Errorf("decode property option translations: %w", err)
		}
	}
	return &o, nil
}

func (r *Repository) CreatePropertyOption(ctx context.Context, option *shopdal.PropertyOption) error {
	customFields, err := marshalOrNil(option.CustomFields)
	if err != nil {
		return fmt.Errorf("encode property option custom fields: %w", err)
	}
	translations, err := marshalOrNil(option.Translations)
	if err != nil {
		return fmt.Errorf("encode property option translations: %w", err)
	}

	query := `
		INSERT INTO property_group_option (id, group_id, name, position, type, custom_fields, translations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		option.ID, option.GroupID, option.Name, option.Position,
		option.Type, customFields, translations, option.CreatedAt)
	if err != nil {
		return handlePostgresError("create property option", err)
	}
	return nil
}

// Reference lookups

func (r *Repository) GetCurrencyByISOCode(ctx context.Context, isoCode string) (*shopdal.Currency, error) {
	query := `
        SELECT id, iso_code, COALESCE(name, ''), COALESCE(factor, 0)
        FROM currency WHERE iso_code = $1 LIMIT 1`

	var c shopdal.Currency
	err := r.db.QueryRow(ctx, query, isoCode).Scan(&c.ID, &c.ISOCode, &c.Name, &c.Factor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get currency", err)
	}
	return &c, nil
}

func (r *Repository) GetCountryByISOCode(ctx context.Context, isoCode string) (*shopdal.Country, error) {
	query := `SELECT id, iso_code, COALESCE(name, '') FROM country WHERE iso_code = $1 LIMIT 1`

	var c shopdal.Country
	err := r.db.QueryRow(ctx, query, isoCode).Scan(&c.ID, &c.ISOCode, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get country", err)
	}
	return &c, nil
}

func (r *Repository) GetSalesChannelByName(ctx context.Context, name string) (*shopdal.SalesChannel, error) {
	query := `SELECT id, name FROM sales_channel WHERE name = $1 LIMIT 1`

	var c shopdal.SalesChannel
	err := r.db.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get sales channel", err)
	}
	return &c, nil
}

func (r *Repository) GetCustomerGroupByName(ctx context.Context, name string) (*shopdal.CustomerGroup, error) {
	query := `SELECT id, name FROM customer_group WHERE name = $1 LIMIT 1`

	var g shopdal.CustomerGroup
	err := r.db.QueryRow(ctx, query, name).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get customer group", err)
	}
	return &g, nil
}

func (r *Repository) GetFirstActivePaymentMethod(ctx context.Context) (*shopdal.PaymentMethod, error) {
	query := `
        SELECT id, name, active FROM payment_method
        WHERE active = TRUE ORDER BY name ASC LIMIT 1`

	var m shopdal.PaymentMethod
	err := r.db.QueryRow(ctx, query).Scan(&m.ID, &m.Name, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get first active payment method", err)
	}
	return &m, nil
}

func (r *Repository) GetSalutationByKey(ctx context.Context, salutationKey string) (*shopdal.Salutation, error) {
	query := `
        SELECT id, salutation_key, COALESCE(display_name, '')
        FROM salutation WHERE salutation_key = $1 LIMIT 1`

	var s shopdal.Salutation
	err := r.db.QueryRow(ctx, query, salutationKey).Scan(&s.ID, &s.SalutationKey, &s.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get salutation", err)
	}
	return &s, nil
}

// Reference inserts

func (r *Repository) CreateCurrency(ctx context.Context, currency *shopdal.Currency) error {
	query := `INSERT INTO currency (id, iso_code, name, factor) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, currency.ID, currency.ISOCode, currency.Name, currency.Factor)
	if err != nil {
		return handlePostgresError("create currency", err)
	}
	return nil
}

func (r *Repository) CreateCountry(ctx context.Context, country *shopdal.Country) error {
	query := `INSERT INTO country (id, iso_code, name) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, country.ID, country.ISOCode, country.Name); err != nil {
		return handlePostgresError("create country", err)
	}
	return nil
}

func (r *Repository) CreateSalesChannel(ctx context.Context, channel *shopdal.SalesChannel) error {
	query := `INSERT INTO sales_channel (id, name) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, channel.ID, channel.Name); err != nil {
		return handlePostgresError("create sales channel", err)
	}
	return nil
}

func (r *Repository) CreateCustomerGroup(ctx context.Context, group *shopdal.CustomerGroup) error {
	query := `INSERT INTO customer_group (id, name) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, group.ID, group.Name); err != nil {
		return handlePostgresError("create customer group", err)
	}
	return nil
}

func (r *Repository) CreatePaymentMethod(ctx context.Context, method *shopdal.PaymentMethod) error {
	query := `INSERT INTO payment_method (id, name, active) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, method.ID, method.Name, method.Active); err != nil {
		return handlePostgresError("create payment method", err)
	}
	return nil
}

func (r *Repository) CreateSalutation(ctx context.Context, salutation *shopdal.Salutation) error {
	query := `INSERT INTO salutation (id, salutation_key, display_name) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, salutation.ID, salutation.SalutationKey, salutation.DisplayName)
	if err != nil {
		return handlePostgresError("create salutation", err)
	}
	return nil
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *shopdal.Media) error {
	query := `
		INSERT INTO media (id, name, file_extension, mime_type, media_folder_id, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

	_, err := r.db.Exec(ctx, query,
		media.ID, media.Name, media.FileExtension, media.MimeType,
		media.MediaFolderID, media.CreatedAt)
	if err != nil {
		return handlePostgresError("create media", err)
	}
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id string) (*shopdal.Media, error) {
	query := `
        SELECT id, name, file_extension, mime_type, COALESCE(media_folder_id, ''), created_at
        FROM media WHERE id = $1`

	var m shopdal.Media
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.FileExtension, &m.MimeType, &m.MediaFolderID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get media", err)
	}
	return &m, nil
}

func (r *Repository) GetMediaFolderByName(ctx context.Context, name string) (*shopdal.MediaFolder, error) {
	query := `
        SELECT id, name, configuration, use_parent_configuration, level, created_at
        FROM media_folder WHERE name = $1 LIMIT 1`

	var (
		f             shopdal.MediaFolder
		configuration []byte
	)
	err := r.db.QueryRow(ctx, query, name).Scan(
		&f.ID, &f.Name, &configuration, &f.UseParentConfiguration, &f.Level, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get media folder", err)
	}
	if len(configuration) > 0 {
		if err := json.Unmarshal(configuration, &f.Configuration); err != nil {
			return nil, fmt.Errorf("decode media folder configuration: %w", err)
		}
	}
	return &f, nil
}

func (r *Repository) CreateMediaFolder(ctx context.Context, folder *shopdal.MediaFolder) error {
	configuration, err := json.Marshal(folder.Configuration)
	if err != nil {
		return fmt.Errorf("encode media folder configuration: %w", err)
	}

	query := `
		INSERT INTO media_folder (id, name, configuration, use_parent_configuration, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		folder.ID, folder.Name, configuration,
		folder.UseParentConfiguration, folder.Level, folder.CreatedAt)
	if err != nil {
		return handlePostgresError("create media folder", err)
	}
	return nil
}

func (r *Repository) GetThumbnailSizeByDimensions(ctx context.Context, width, height int) (*shopdal.MediaThumbnailSize, error) {
	query := `
        SELECT id, width, height FROM media_thumbnail_size
        WHERE width = $1 AND height = $2 LIMIT 1`

	var s shopdal.MediaThumbnailSize
	err := r.db.QueryRow(ctx, query, width, height).Scan(&s.ID, &s.Width, &s.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shopdal.ErrNotFound
		}
		return nil, handlePostgresError("get thumbnail size", err)
	}
	return &s, nil
}

func (r *Repository) CreateThumbnailSize(ctx context.Context, size *shopdal.MediaThumbnailSize) error {
	query := `INSERT INTO media_thumbnail_size (id, width, height) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, size.ID, size.Width, size.Height); err != nil {
		return handlePostgresError("create thumbnail size", err)
	}
	return nil
}

// marshalOrNil encodes v to JSON, returning nil for empty values so the
// column stays NULL instead of holding "[]"/"{}" noise.
func marshalOrNil(v interface{}) ([]byte, error) {
	switch value := v.(type) {
	case []shopdal.Translation:
		if len(value) == 0 {
			return nil, nil
		}
	case map[string]string:
		if len(value) == 0 {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
