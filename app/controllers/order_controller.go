package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
	"github.com/shashiranjanraj/shopadmin/pkg/resource"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// orderResource renders the money columns with two decimals.
func orderResource(o models.Order) resource.Map {
	return resource.Map{
		"id":            o.ID,
		"orderID":       o.OrderID,
		"firstName":     o.FirstName,
		"lastName":      o.LastName,
		"contactNumber": o.ContactNumber,
		"address1":      o.Address1,
		"address2":      o.Address2,
		"city":          o.City,
		"province":      o.Province,
		"postalCode":    o.PostalCode,
		"specialNote":   o.SpecialNote,
		"subtotal":      o.Subtotal.StringFixed(2),
		"deliveryFee":   o.DeliveryFee.StringFixed(2),
		"discount":      o.Discount.StringFixed(2),
		"total":         o.Total.StringFixed(2),
		"order_status":  o.Status,
		"orderDate":     o.OrderDate,
	}
}

// Place handles POST /api/place_order.
func (h *OrderController) Place(c *appctx.Context) {
	var in services.OrderInput
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}

	order, err := h.orders.Place(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"message": "Order placed successfully",
		"orderID": order.OrderID,
	})
}

// Index handles GET /api/order_details.
func (h *OrderController) Index(c *appctx.Context) {
	orders, err := h.orders.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(orders, orderResource))
}

// UpdateStatus handles PUT /api/order_details/{orderID}.
func (h *OrderController) UpdateStatus(c *appctx.Context) {
	var in struct {
		Status string `json:"order_status"`
	}
	if err := c.DecodeJSON(&in); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return
	}

	if _, err := h.orders.UpdateStatus(c.Context(), c.Param("orderID"), in.Status); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Order status updated successfully")
}
