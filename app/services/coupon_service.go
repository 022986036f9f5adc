package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/validate"
	"github.com/shopspring/decimal"
)

// CouponInput is the body of coupon add and update.
type CouponInput struct {
	Code               string           `json:"coupon_code"         validate:"max=100"`
	Name               string           `json:"coupon_name"         validate:"max=255"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"gte=0,lte=100"`
}

type CouponService struct {
	coupons *repositories.CouponRepository
}

func NewCouponService(coupons *repositories.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.coupons.All(ctx)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	return coupons, nil
}

// Add stores a coupon and returns its id.
func (s *CouponService) Add(ctx context.Context, in CouponInput) (uint, error) {
	c, err := in.coupon()
	if err != nil {
		return 0, err
	}
	if err := s.coupons.Create(ctx, &c); err != nil {
		return 0, persistence(ErrPersistence, err)
	}
	logger.WithCtx(ctx).Info("coupon added", "coupon_id", c.ID, "code", c.Code)
	return c.ID, nil
}

// Update rewrites coupon id and returns the number of rows changed, which
// is zero for an unknown id.
func (s *CouponService) Update(ctx context.Context, id uint, in CouponInput) (int64, error) {
	c, err := in.coupon()
	if err != nil {
		return 0, err
	}
	affected, err := s.coupons.Update(ctx, id, map[string]any{
		"coupon_code":         c.Code,
		"coupon_name":         c.Name,
		"discount_percentage": c.DiscountPercentage,
	})
	if err != nil {
		return 0, persistence(ErrPersistence, err)
	}
	return affected, nil
}

// Delete removes coupon id and returns the number of rows removed.
func (s *CouponService) Delete(ctx context.Context, id uint) (int64, error) {
	affected, err := s.coupons.Delete(ctx, id)
	if err != nil {
		return 0, persistence(ErrPersistence, err)
	}
	return affected, nil
}

// ApplyByCode looks a coupon up by its exact code. With duplicate codes the
// oldest coupon wins.
func (s *CouponService) ApplyByCode(ctx context.Context, code string) (models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return models.Coupon{}, ErrMissingCode
	}
	c, err := s.coupons.FirstByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return models.Coupon{}, ErrInvalidCoupon
		}
		return models.Coupon{}, persistence(ErrPersistence, err)
	}
	return c, nil
}

func (in CouponInput) coupon() (models.Coupon, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" || in.DiscountPercentage == nil {
		return models.Coupon{}, ErrMissingCoupon
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Coupon{}, invalid(validate.Join(errs))
	}
	return models.Coupon{
		Code:               in.Code,
		Name:               in.Name,
		DiscountPercentage: *in.DiscountPercentage,
	}, nil
}
