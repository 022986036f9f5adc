package repositories

import (
	"context"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"gorm.io/gorm"
)

// searchColumns is the projection returned by name search.
var searchColumns = []string{"prod_id", "prod_name", "prod_image", "prod_qty", "new_price", "old_price"}

// ProductRepository reads and writes prod_details.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Find returns gorm.ErrRecordNotFound when id does not exist.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("prod_id = ?", id).First(&p).Error
	return p, err
}

// Update writes every column in fields, including NULLs.
func (r *ProductRepository) Update(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("prod_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("prod_id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).Order("prod_id").Find(&out).Error
	return out, err
}

// SearchByName matches term anywhere in the name, ignoring case.
func (r *ProductRepository) SearchByName(ctx context.Context, term string) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Select(searchColumns).
		Where("LOWER(prod_name) LIKE LOWER(?) ESCAPE '!'", "%"+escapeLike(term)+"%").
		Order("prod_id").
		Find(&out).Error
	return out, err
}

func (r *ProductRepository) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("prod_id").Find(&out).Error
	return out, err
}

// ImageNames lists every filename a product still references.
func (r *ProductRepository) ImageNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("prod_image IS NOT NULL AND prod_image <> ''").
		Pluck("prod_image", &names).Error
	return names, err
}
