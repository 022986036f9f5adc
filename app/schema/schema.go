// Package schema is the read-only GraphQL view of the catalog, coupons and
// orders. It resolves through the same services as the REST handlers.
package schema

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
	gql "github.com/shashiranjanraj/shopadmin/pkg/graphql"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/resource"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"prod_id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"prod_name":        &graphql.Field{Type: graphql.String},
		"prod_image":       &graphql.Field{Type: graphql.String},
		"prod_qty":         &graphql.Field{Type: graphql.Int},
		"new_price":        &graphql.Field{Type: graphql.String},
		"old_price":        &graphql.Field{Type: graphql.String},
		"prod_description": &graphql.Field{Type: graphql.String},
		"category":         &graphql.Field{Type: graphql.String},
		"sub_category":     &graphql.Field{Type: graphql.String, Description: "JSON text"},
		"color_variations": &graphql.Field{Type: graphql.String, Description: "JSON text"},
		"other_variations": &graphql.Field{Type: graphql.String, Description: "JSON text"},
	},
})

var couponType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Coupon",
	Fields: graphql.Fields{
		"coupon_id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"coupon_code":         &graphql.Field{Type: graphql.String},
		"coupon_name":         &graphql.Field{Type: graphql.String},
		"discount_percentage": &graphql.Field{Type: graphql.String},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"orderID":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"firstName":     &graphql.Field{Type: graphql.String},
		"lastName":      &graphql.Field{Type: graphql.String},
		"contactNumber": &graphql.Field{Type: graphql.String},
		"address1":      &graphql.Field{Type: graphql.String},
		"address2":      &graphql.Field{Type: graphql.String},
		"city":          &graphql.Field{Type: graphql.String},
		"province":      &graphql.Field{Type: graphql.String},
		"postalCode":    &graphql.Field{Type: graphql.String},
		"specialNote":   &graphql.Field{Type: graphql.String},
		"subtotal":      &graphql.Field{Type: graphql.String},
		"deliveryFee":   &graphql.Field{Type: graphql.String},
		"discount":      &graphql.Field{Type: graphql.String},
		"total":         &graphql.Field{Type: graphql.String},
		"order_status":  &graphql.Field{Type: graphql.String},
		"orderDate":     &graphql.Field{Type: graphql.DateTime},
	},
})

// Resolver holds the services the schema reads from.
type Resolver struct {
	Catalog *services.CatalogService
	Coupons *services.CouponService
	Orders  *services.OrderService
}

// New builds the schema.
func New(r Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.products,
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.product,
			},
			"coupons": &graphql.Field{
				Type:    graphql.NewList(couponType),
				Resolve: r.coupons,
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.orders,
			},
		},
	})
	return gql.NewSchema(query)
}

func (r Resolver) products(p graphql.ResolveParams) (any, error) {
	search, _ := p.Args["search"].(string)
	category, _ := p.Args["category"].(string)

	var (
		products []models.Product
		err      error
	)
	switch {
	case search != "":
		products, err = r.Catalog.Search(p.Context, search)
		if errors.Is(err, services.ErrNoMatch) {
			return []resource.Map{}, nil
		}
	case category != "":
		products, err = r.Catalog.ListByCategory(p.Context, category, "")
	default:
		products, err = r.Catalog.ListAll(p.Context)
	}
	if err != nil {
		return nil, publicError(p, err)
	}
	return resource.Collection(products, r.product2map), nil
}

func (r Resolver) product(p graphql.ResolveParams) (any, error) {
	id, _ := p.Args["id"].(int)
	if id <= 0 {
		return nil, nil
	}
	prod, err := r.Catalog.Find(p.Context, uint(id))
	if errors.Is(err, services.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, publicError(p, err)
	}
	return r.product2map(prod), nil
}

func (r Resolver) coupons(p graphql.ResolveParams) (any, error) {
	coupons, err := r.Coupons.List(p.Context)
	if err != nil {
		return nil, publicError(p, err)
	}
	return resource.Collection(coupons, func(c models.Coupon) resource.Map {
		return resource.Map{
			"coupon_id":           int(c.ID),
			"coupon_code":         c.Code,
			"coupon_name":         c.Name,
			"discount_percentage": c.DiscountPercentage.StringFixed(2),
		}
	}), nil
}

func (r Resolver) orders(p graphql.ResolveParams) (any, error) {
	status, _ := p.Args["status"].(string)

	var (
		orders []models.Order
		err    error
	)
	if status != "" {
		orders, err = r.Orders.ListByStatus(p.Context, status)
	} else {
		orders, err = r.Orders.List(p.Context)
	}
	if err != nil {
		return nil, publicError(p, err)
	}
	return resource.Collection(orders, orderMap), nil
}

func (r Resolver) product2map(p models.Product) resource.Map {
	m := resource.Map{
		"prod_id":          int(p.ID),
		"prod_name":        p.Name,
		"prod_qty":         p.Quantity,
		"new_price":        p.NewPrice.StringFixed(2),
		"old_price":        p.OldPrice.StringFixed(2),
		"prod_description": p.Description,
		"category":         p.Category,
		"sub_category":     text(p.SubCategory),
		"color_variations": text(p.ColorVariations),
		"other_variations": text(p.OtherVariations),
	}
	if url := r.Catalog.ImageURL(p); url != "" {
		m["prod_image"] = url
	}
	return m
}

func orderMap(o models.Order) resource.Map {
	return resource.Map{
		"orderID":       o.OrderID,
		"firstName":     o.FirstName,
		"lastName":      o.LastName,
		"contactNumber": o.ContactNumber,
		"address1":      o.Address1,
		"address2":      o.Address2,
		"city":          o.City,
		"province":      o.Province,
		"postalCode":    o.PostalCode,
		"specialNote":   text(o.SpecialNote),
		"subtotal":      o.Subtotal.StringFixed(2),
		"deliveryFee":   o.DeliveryFee.StringFixed(2),
		"discount":      o.Discount.StringFixed(2),
		"total":         o.Total.StringFixed(2),
		"order_status":  o.Status,
		"orderDate":     o.OrderDate,
	}
}

// text unwraps a nullable column; nil stays null in the result.
func text(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// publicError keeps storage detail out of query results.
func publicError(p graphql.ResolveParams, err error) error {
	if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrNotFound) {
		return errors.New(services.Message(err))
	}
	logger.WithCtx(p.Context).Error("graphql resolve failed", "field", p.Info.FieldName, "error", err)
	return errors.New("Internal Server Error")
}
