package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/pkg/cache"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/validate"
	"github.com/shopspring/decimal"
)

const productsCacheKey = "products:all"

// ProductInput carries a product form. Scalars arrive as text from either
// JSON or multipart bodies and are parsed here.
type ProductInput struct {
	Name            string `json:"prod_name"        validate:"max=255"`
	Quantity        string `json:"prod_qty"         validate:"integer,gte=0"`
	NewPrice        string `json:"new_price"        validate:"numeric,gte=0"`
	OldPrice        string `json:"old_price"        validate:"numeric,gte=0"`
	Description     string `json:"prod_description"`
	Category        string `json:"category"         validate:"max=100"`
	SubCategory     json.RawMessage
	ColorVariations json.RawMessage
	OtherVariations json.RawMessage
}

// CatalogService owns prod_details and keeps product images in step with
// the rows that reference them.
type CatalogService struct {
	products      *repositories.ProductRepository
	assets        *AssetService
	cache         *cache.Store
	updateMissing string
}

func NewCatalogService(products *repositories.ProductRepository, assets *AssetService, store *cache.Store) *CatalogService {
	return &CatalogService{
		products:      products,
		assets:        assets,
		cache:         store,
		updateMissing: config.ProductUpdateMissing(),
	}
}

// SetUpdateMissing overrides PRODUCT_UPDATE_MISSING.
func (s *CatalogService) SetUpdateMissing(mode string) { s.updateMissing = mode }

// Add creates a product and returns its id. The image, if any, is stored
// before the insert and reclaimed again if the insert fails.
func (s *CatalogService) Add(ctx context.Context, in ProductInput, img *Upload) (uint, error) {
	p, err := in.product()
	if err != nil {
		return 0, err
	}

	if img != nil {
		name, err := s.assets.Store(ctx, *img)
		if err != nil {
			return 0, err
		}
		p.Image = &name
	}

	if err := s.products.Create(ctx, &p); err != nil {
		s.assets.Reclaim(ctx, p.ImageName())
		return 0, persistence(ErrPersistence, err)
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product added", "prod_id", p.ID)
	return p.ID, nil
}

// Update rewrites every scalar and variant column of product id. The image
// column changes only when img is given; the replaced file is reclaimed
// after the row is written.
func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput, img *Upload) error {
	p, err := in.product()
	if err != nil {
		return err
	}

	current, err := s.products.Find(ctx, id)
	if err != nil {
		if !isNotFound(err) {
			return persistence(ErrUpdateFailed, err)
		}
		if s.updateMissing == config.UpdateMissingNotFound {
			return ErrProductNotFound
		}
		// Nothing to update; the upload would be unreferenced, so it is
		// never stored.
		logger.WithCtx(ctx).Info("update of missing product ignored", "prod_id", id)
		return nil
	}

	fields := map[string]any{
		"prod_name":        p.Name,
		"prod_qty":         p.Quantity,
		"new_price":        p.NewPrice,
		"old_price":        p.OldPrice,
		"prod_description": p.Description,
		"category":         p.Category,
		"sub_category":     p.SubCategory,
		"color_variations": p.ColorVariations,
		"other_variations": p.OtherVariations,
	}

	var stored string
	if img != nil {
		if stored, err = s.assets.Store(ctx, *img); err != nil {
			return err
		}
		fields["prod_image"] = stored
	}

	if _, err := s.products.Update(ctx, id, fields); err != nil {
		s.assets.Reclaim(ctx, stored)
		return persistence(ErrUpdateFailed, err)
	}

	if old := current.ImageName(); stored != "" && old != stored {
		s.assets.Reclaim(ctx, old)
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes product id, then its image. A failed image removal is
// logged and does not undo the delete.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrProductNotFound
		}
		return persistence(ErrPersistence, err)
	}

	affected, err := s.products.Delete(ctx, id)
	if err != nil {
		return persistence(ErrPersistence, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	s.assets.Reclaim(ctx, p.ImageName())
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product deleted", "prod_id", id)
	return nil
}

// Find returns one product.
func (s *CatalogService) Find(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, persistence(ErrPersistence, err)
	}
	return p, nil
}

// Search matches term against product names, ignoring case. Only the
// listing columns are loaded.
func (s *CatalogService) Search(ctx context.Context, term string) ([]models.Product, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrMissingQuery
	}
	products, err := s.products.SearchByName(ctx, term)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoMatch, term)
	}
	return products, nil
}

// ListByCategory returns the products in category. A non-empty subCategory
// further keeps products whose sub_category is that string or an array
// holding it.
func (s *CatalogService) ListByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	products, err := s.products.ByCategory(ctx, category)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	if subCategory == "" {
		return products, nil
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if models.VariantContains(models.DecodeVariant(p.SubCategory), subCategory) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAll returns every product, from the cache when it is warm.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.cache.Get(ctx, productsCacheKey, &products) {
		return products, nil
	}

	products, err := s.products.All(ctx)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	if err := s.cache.Set(ctx, productsCacheKey, products); err != nil {
		logger.WithCtx(ctx).Warn("cache products failed", "error", err)
	}
	return products, nil
}

// PruneImages removes stored images that no product references.
func (s *CatalogService) PruneImages(ctx context.Context) ([]string, error) {
	names, err := s.products.ImageNames(ctx)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	return s.assets.Prune(ctx, names)
}

// ImageURL is the public URL of the product's image, or "".
func (s *CatalogService) ImageURL(p models.Product) string {
	return s.assets.URL(p.ImageName())
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, productsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidate failed", "key", productsCacheKey, "error", err)
	}
}

// product checks the input and converts it to a row. Name, quantity and
// both prices must be present before anything else is looked at.
func (in ProductInput) product() (models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.NewPrice = strings.TrimSpace(in.NewPrice)
	in.OldPrice = strings.TrimSpace(in.OldPrice)

	if in.Name == "" || in.Quantity == "" || in.NewPrice == "" || in.OldPrice == "" {
		return models.Product{}, ErrMissingFields
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, invalid(validate.Join(errs))
	}

	qty, err := strconv.Atoi(in.Quantity)
	if err != nil {
		return models.Product{}, invalid("The prod_qty field must be an integer.")
	}
	newPrice, err := decimal.NewFromString(in.NewPrice)
	if err != nil {
		return models.Product{}, invalid("The new_price field must be a number.")
	}
	oldPrice, err := decimal.NewFromString(in.OldPrice)
	if err != nil {
		return models.Product{}, invalid("The old_price field must be a number.")
	}

	p := models.Product{
		Name:        in.Name,
		Quantity:    qty,
		NewPrice:    newPrice,
		OldPrice:    oldPrice,
		Description: in.Description,
		Category:    in.Category,
	}
	variants := []struct {
		field string
		raw   json.RawMessage
		dst   **string
	}{
		{"sub_category", in.SubCategory, &p.SubCategory},
		{"color_variations", in.ColorVariations, &p.ColorVariations},
		{"other_variations", in.OtherVariations, &p.OtherVariations},
	}
	for _, v := range variants {
		col, err := models.EncodeVariant(v.raw)
		if err != nil {
			return models.Product{}, invalid(fmt.Sprintf("The %s field must be valid JSON.", v.field))
		}
		*v.dst = col
	}
	return p, nil
}
