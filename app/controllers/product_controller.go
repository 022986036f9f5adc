package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
	"github.com/shashiranjanraj/shopadmin/pkg/resource"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index handles GET /api/prod_details.
func (h *ProductController) Index(c *appctx.Context) {
	products, err := h.catalog.ListAll(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(products, h.full(c)))
}

// Store handles POST /api/add_product.
func (h *ProductController) Store(c *appctx.Context) {
	in, img, done, ok := h.input(c)
	if !ok {
		return
	}
	defer done()

	id, err := h.catalog.Add(c.Context(), in, img)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{
		"message":   "Product added successfully",
		"productId": id,
	})
}

// Update handles PUT /api/update_product/{id}.
func (h *ProductController) Update(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusBadRequest, "Invalid product id")
		return
	}
	in, img, done, ok := h.input(c)
	if !ok {
		return
	}
	defer done()

	if err := h.catalog.Update(c.Context(), id, in, img); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Product updated successfully")
}

// Destroy handles DELETE /api/delete_product/{id}.
func (h *ProductController) Destroy(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	if err := h.catalog.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Product deleted successfully")
}

// Search handles GET /api/search?q=.
func (h *ProductController) Search(c *appctx.Context) {
	products, err := h.catalog.Search(c.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(products, h.listing(c)))
}

// ByCategory handles GET /api/products?category=&sub_category=.
func (h *ProductController) ByCategory(c *appctx.Context) {
	products, err := h.catalog.ListByCategory(c.Context(), c.Query("category"), c.Query("sub_category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(products, h.full(c)))
}

// imageURL makes the stored image reachable from the caller: root-relative
// disk URLs get the request's scheme and host.
func (h *ProductController) imageURL(c *appctx.Context, p models.Product) any {
	url := h.catalog.ImageURL(p)
	if url == "" {
		return nil
	}
	if strings.HasPrefix(url, "/") {
		url = c.BaseURL() + url
	}
	return url
}

func (h *ProductController) listing(c *appctx.Context) resource.Transformer[models.Product] {
	return func(p models.Product) resource.Map {
		return resource.Map{
			"prod_id":    p.ID,
			"prod_name":  p.Name,
			"prod_image": h.imageURL(c, p),
			"prod_qty":   p.Quantity,
			"new_price":  p.NewPrice.StringFixed(2),
			"old_price":  p.OldPrice.StringFixed(2),
		}
	}
}

func (h *ProductController) full(c *appctx.Context) resource.Transformer[models.Product] {
	listing := h.listing(c)
	return func(p models.Product) resource.Map {
		m := listing(p)
		m["prod_description"] = p.Description
		m["category"] = p.Category
		m["sub_category"] = models.DecodeVariant(p.SubCategory)
		m["color_variations"] = models.DecodeVariant(p.ColorVariations)
		m["other_variations"] = models.DecodeVariant(p.OtherVariations)
		return m
	}
}

// input reads a product form from a JSON or multipart body. On failure it
// has already answered 400. done releases the uploaded file.
func (h *ProductController) input(c *appctx.Context) (in services.ProductInput, img *services.Upload, done func(), ok bool) {
	done = func() {}
	if !c.IsMultipart() {
		var body map[string]json.RawMessage
		if err := c.DecodeJSON(&body); err != nil {
			c.Error(http.StatusBadRequest, invalidBody)
			return in, nil, done, false
		}
		return productFromJSON(body), nil, done, true
	}

	if err := c.ParseMultipart(); err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return in, nil, done, false
	}
	in = productFromForm(c)

	fh, err := c.FormFile("prod_image")
	if err != nil {
		c.Error(http.StatusBadRequest, invalidBody)
		return in, nil, done, false
	}
	if fh != nil {
		f, err := fh.Open()
		if err != nil {
			c.Logger().Error("open upload", "error", err)
			c.Error(http.StatusBadRequest, invalidBody)
			return in, nil, done, false
		}
		img = &services.Upload{Filename: fh.Filename, Body: f}
		done = func() { f.Close() }
	}
	return in, img, done, true
}

func productFromJSON(body map[string]json.RawMessage) services.ProductInput {
	sub := body["subCategories"]
	if len(sub) == 0 {
		sub = body["sub_category"]
	}
	return services.ProductInput{
		Name:            scalar(body["prod_name"]),
		Quantity:        scalar(body["prod_qty"]),
		NewPrice:        scalar(body["new_price"]),
		OldPrice:        scalar(body["old_price"]),
		Description:     scalar(body["prod_description"]),
		Category:        scalar(body["category"]),
		SubCategory:     variant(sub),
		ColorVariations: variant(body["color_variations"]),
		OtherVariations: variant(body["other_variations"]),
	}
}

func productFromForm(c *appctx.Context) services.ProductInput {
	value := func(key string) string {
		v, _ := c.FormValue(key)
		return v
	}
	sub, ok := c.FormValue("subCategories")
	if !ok {
		sub = value("sub_category")
	}
	return services.ProductInput{
		Name:            value("prod_name"),
		Quantity:        value("prod_qty"),
		NewPrice:        value("new_price"),
		OldPrice:        value("old_price"),
		Description:     value("prod_description"),
		Category:        value("category"),
		SubCategory:     models.VariantFromForm(sub),
		ColorVariations: models.VariantFromForm(value("color_variations")),
		OtherVariations: models.VariantFromForm(value("other_variations")),
	}
}

// scalar renders a JSON string or number as text; null and absent are "".
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// variant treats an empty JSON string like an absent field.
func variant(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte(`""`)) {
		return nil
	}
	return raw
}
