package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
)

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCouponLifecycle(t *testing.T) {
	f := newFixture(t)

	id, err := f.coupons.Add(bg, services.CouponInput{Code: "SAVE10", Name: "Save ten", DiscountPercentage: pct("10")})
	require.NoError(t, err)
	assert.NotZero(t, id)

	list, err := f.coupons.List(bg)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SAVE10", list[0].Code)

	n, err := f.coupons.Update(bg, id, services.CouponInput{Code: "SAVE15", Name: "Save fifteen", DiscountPercentage: pct("15.5")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	c, err := f.coupons.ApplyByCode(bg, "SAVE15")
	require.NoError(t, err)
	assert.Equal(t, "Save fifteen", c.Name)
	assert.True(t, c.DiscountPercentage.Equal(decimal.RequireFromString("15.5")))

	n, err = f.coupons.Update(bg, 999, services.CouponInput{Code: "X", Name: "x", DiscountPercentage: pct("1")})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.coupons.Delete(bg, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.coupons.Delete(bg, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCouponValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.coupons.Add(bg, services.CouponInput{Code: "A", Name: "a"})
	assert.ErrorIs(t, err, services.ErrMissingCoupon)
	assert.Equal(t, "Missing coupon details", services.Message(err))

	_, err = f.coupons.Add(bg, services.CouponInput{Code: "A", Name: "a", DiscountPercentage: pct("120")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.coupons.Update(bg, 1, services.CouponInput{Name: "a", DiscountPercentage: pct("5")})
	assert.ErrorIs(t, err, services.ErrMissingCoupon)
}

func TestApplyByCode(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.Coupon{Code: "DUP", Name: "first", DiscountPercentage: decimal.NewFromInt(5)}).Error)
	require.NoError(t, f.db.Create(&models.Coupon{Code: "DUP", Name: "second", DiscountPercentage: decimal.NewFromInt(50)}).Error)

	c, err := f.coupons.ApplyByCode(bg, "DUP")
	require.NoError(t, err)
	assert.Equal(t, "first", c.Name)
	assert.True(t, c.DiscountPercentage.Equal(decimal.NewFromInt(5)))

	_, err = f.coupons.ApplyByCode(bg, "NOPE")
	assert.ErrorIs(t, err, services.ErrInvalidCoupon)
	assert.Equal(t, "Invalid coupon code", services.Message(err))

	_, err = f.coupons.ApplyByCode(bg, "")
	assert.ErrorIs(t, err, services.ErrMissingCode)
}
