package repositories

import (
	"context"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository reads and writes order_details and order_counters.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Transaction runs fn inside one database transaction.
func (r *OrderRepository) Transaction(ctx context.Context, fn func(tx *OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// All returns every order, oldest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *OrderRepository) ByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Where("order_status = ?", status).Order("id").Find(&out).Error
	return out, err
}

// FindByOrderID returns gorm.ErrRecordNotFound when no order has this id.
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Where(byOrderID(orderID)).First(&o).Error
	return o, err
}

func (r *OrderRepository) SetStatus(ctx context.Context, orderID, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where(byOrderID(orderID)).
		Update("order_status", status)
	return res.RowsAffected, res.Error
}

// byOrderID lets the dialect quote the camel-case column.
func byOrderID(orderID string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "orderID"}, Value: orderID}
}

// BumpCounter increments the day's counter, creating it at zero first, and
// returns the new value. The UPDATE holds the row lock until the enclosing
// transaction ends, so placements for the same day queue behind it on every
// dialect without a locking read.
func (r *OrderRepository) BumpCounter(ctx context.Context, day string) (int, error) {
	db := r.db.WithContext(ctx)
	if err := ensureCounter(db, day).Error; err != nil {
		return 0, err
	}
	if err := bumpCounter(db, day).Error; err != nil {
		return 0, err
	}
	var c models.OrderCounter
	if err := db.Where("day = ?", day).Take(&c).Error; err != nil {
		return 0, err
	}
	return c.LastSeq, nil
}

// RaiseCounter moves the day's counter up to seq.
func (r *OrderRepository) RaiseCounter(ctx context.Context, day string, seq int) error {
	return r.db.WithContext(ctx).Model(&models.OrderCounter{}).
		Where("day = ? AND last_seq < ?", day, seq).
		Update("last_seq", seq).Error
}

func ensureCounter(db *gorm.DB, day string) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoNothing: true,
	}).Create(&models.OrderCounter{Day: day})
}

func bumpCounter(db *gorm.DB, day string) *gorm.DB {
	return db.Model(&models.OrderCounter{}).
		Where("day = ?", day).
		Update("last_seq", gorm.Expr("last_seq + 1"))
}

// DayFloor is the highest sequence already used on day, judged both by row
// count and by the largest stored order_seq.
func (r *OrderRepository) DayFloor(ctx context.Context, day string) (int, error) {
	var row struct {
		N      int64
		MaxSeq int
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS n, COALESCE(MAX(order_seq), 0) AS max_seq").
		Where("order_day = ?", day).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return max(int(row.N), row.MaxSeq), nil
}
