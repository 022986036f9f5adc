package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
	"github.com/shashiranjanraj/shopadmin/pkg/resource"
)

type CouponController struct {
	coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

func couponResource(cp models.Coupon) resource.Map {
	return resource.Map{
		"coupon_id":           cp.ID,
		"coupon_code":         cp.Code,
		"coupon_name":         cp.Name,
		"discount_percentage": cp.DiscountPercentage.StringFixed(2),
	}
}

// Index handles GET /api/coupon_details.
func (h *CouponController) Index(c *appctx.Context) {
	coupons, err := h.coupons.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(coupons, couponResource))
}

// Store handles POST /api/coupon_details.
func (h *CouponController) Store(c *appctx.Context) {
	var in services.CouponInput
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}
	id, err := h.coupons.Add(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message":   "Coupon added successfully",
		"coupon_id": id,
	})
}

// Apply handles POST /api/apply_coupon. An unknown code answers with the
// storefront's {success:false} shape rather than the error envelope.
func (h *CouponController) Apply(c *appctx.Context) {
	var in struct {
		Code string `json:"coupon_code"`
	}
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}

	cp, err := h.coupons.ApplyByCode(c.Context(), in.Code)
	if errors.Is(err, services.ErrInvalidCoupon) {
		c.JSON(http.StatusNotFound, map[string]any{
			"success": false,
			"message": services.Message(err),
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{
		"success":             true,
		"coupon_name":         cp.Name,
		"discount_percentage": cp.DiscountPercentage.StringFixed(2),
	})
}

// Update handles PUT /api/update_coupon/{id}.
func (h *CouponController) Update(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusBadRequest, "Invalid coupon id")
		return
	}
	var in services.CouponInput
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}

	affected, err := h.coupons.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message":      "Coupon updated successfully",
		"affectedRows": affected,
	})
}

// Destroy handles DELETE /api/delete_coupon/{id}.
func (h *CouponController) Destroy(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusBadRequest, "Invalid coupon id")
		return
	}
	affected, err := h.coupons.Delete(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message":      "Coupon deleted successfully",
		"affectedRows": affected,
	})
}
