package services_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/services"
)

func productInput() services.ProductInput {
	return services.ProductInput{
		Name:        "Linen Shirt",
		Quantity:    "12",
		NewPrice:    "2499.00",
		OldPrice:    "2999.00",
		Description: "Breathable summer shirt",
		Category:    "Men",
	}
}

func upload(name, content string) *services.Upload {
	return &services.Upload{Filename: name, Body: strings.NewReader(content)}
}

func fileExists(t *testing.T, dir, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func TestAddRequiresCoreFields(t *testing.T) {
	f := newFixture(t)

	for _, mutate := range []func(*services.ProductInput){
		func(in *services.ProductInput) { in.Name = "" },
		func(in *services.ProductInput) { in.Quantity = "" },
		func(in *services.ProductInput) { in.NewPrice = " " },
		func(in *services.ProductInput) { in.OldPrice = "" },
	} {
		in := productInput()
		mutate(&in)
		_, err := f.catalog.Add(bg, in, nil)
		assert.ErrorIs(t, err, services.ErrMissingFields)
		assert.Equal(t, "Missing required product fields", services.Message(err))
	}
}

func TestAddRejectsBadScalars(t *testing.T) {
	f := newFixture(t)

	in := productInput()
	in.Quantity = "-1"
	_, err := f.catalog.Add(bg, in, nil)
	assert.ErrorIs(t, err, services.ErrValidation)

	in = productInput()
	in.NewPrice = "cheap"
	_, err = f.catalog.Add(bg, in, nil)
	assert.ErrorIs(t, err, services.ErrValidation)

	in = productInput()
	in.ColorVariations = json.RawMessage(`{"red":`)
	_, err = f.catalog.Add(bg, in, nil)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, services.Message(err), "color_variations")
}

func TestAddAcceptsNewPriceAboveOldPrice(t *testing.T) {
	f := newFixture(t)
	in := productInput()
	in.NewPrice, in.OldPrice = "100", "50"

	_, err := f.catalog.Add(bg, in, nil)
	assert.NoError(t, err)
}

func TestVariantsRoundTrip(t *testing.T) {
	f := newFixture(t)

	in := productInput()
	in.SubCategory = json.RawMessage(`["Shirts", "Summer"]`)
	in.ColorVariations = json.RawMessage(`[{"color":"red","sizes":{"M":3,"L":0}},{"color":"blue","price":19.990}]`)
	in.OtherVariations = json.RawMessage(`[]`)

	id, err := f.catalog.Add(bg, in, nil)
	require.NoError(t, err)

	p, err := f.catalog.Find(bg, id)
	require.NoError(t, err)
	assert.JSONEq(t, string(in.SubCategory), string(models.DecodeVariant(p.SubCategory)))
	assert.JSONEq(t, string(in.ColorVariations), string(models.DecodeVariant(p.ColorVariations)))
	assert.Contains(t, *p.ColorVariations, "19.990")
	require.NotNil(t, p.OtherVariations)
	assert.Equal(t, "[]", *p.OtherVariations)

	// An update without variants clears them to NULL.
	require.NoError(t, f.catalog.Update(bg, id, productInput(), nil))
	p, err = f.catalog.Find(bg, id)
	require.NoError(t, err)
	assert.Nil(t, p.SubCategory)
	assert.Nil(t, p.ColorVariations)
	assert.Nil(t, p.OtherVariations)
}

func TestAddStoresImage(t *testing.T) {
	f := newFixture(t)

	id, err := f.catalog.Add(bg, productInput(), upload(`C:\photos\shirt.png`, "png-bytes"))
	require.NoError(t, err)

	p, err := f.catalog.Find(bg, id)
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.Regexp(t, regexp.MustCompile(`^\d+-shirt\.png$`), *p.Image)
	assert.True(t, fileExists(t, f.disk.Root(), *p.Image))
	assert.Equal(t, "/uploads/"+*p.Image, f.catalog.ImageURL(p))
}

func TestUpdateKeepsOrReplacesImage(t *testing.T) {
	f := newFixture(t)

	id, err := f.catalog.Add(bg, productInput(), upload("first.png", "one"))
	require.NoError(t, err)
	before, err := f.catalog.Find(bg, id)
	require.NoError(t, err)
	first := before.ImageName()

	in := productInput()
	in.Name = "Linen Shirt v2"
	require.NoError(t, f.catalog.Update(bg, id, in, nil))
	f.assets.Flush()

	p, err := f.catalog.Find(bg, id)
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt v2", p.Name)
	assert.Equal(t, first, p.ImageName())
	assert.True(t, fileExists(t, f.disk.Root(), first))

	require.NoError(t, f.catalog.Update(bg, id, in, upload("second.png", "two")))
	f.assets.Flush()

	p, err = f.catalog.Find(bg, id)
	require.NoError(t, err)
	second := p.ImageName()
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "-second.png"))
	assert.True(t, fileExists(t, f.disk.Root(), second))
	assert.False(t, fileExists(t, f.disk.Root(), first))
}

func TestUpdateMissingProduct(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.catalog.Update(bg, 404, productInput(), upload("x.png", "x")))
	files, err := f.disk.List(bg)
	require.NoError(t, err)
	assert.Empty(t, files)

	f.catalog.SetUpdateMissing("not_found")
	err = f.catalog.Update(bg, 404, productInput(), nil)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestDeleteRemovesRowAndImage(t *testing.T) {
	f := newFixture(t)

	image := "17000-shirt.png"
	require.NoError(t, f.disk.Put(bg, image, bytes.NewBufferString("png")))
	p := models.Product{ID: 7, Name: "Shirt", Quantity: 1, Image: &image}
	require.NoError(t, f.db.Create(&p).Error)

	require.NoError(t, f.catalog.Delete(bg, 7))
	f.assets.Flush()

	_, err := f.catalog.Find(bg, 7)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.False(t, fileExists(t, f.disk.Root(), image))

	err = f.catalog.Delete(bg, 7)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Equal(t, "Product not found", services.Message(err))
}

func TestDeleteWithMissingFileStillSucceeds(t *testing.T) {
	f := newFixture(t)
	image := "gone.png"
	require.NoError(t, f.db.Create(&models.Product{Name: "Ghost", Image: &image}).Error)

	var p models.Product
	require.NoError(t, f.db.First(&p).Error)
	assert.NoError(t, f.catalog.Delete(bg, p.ID))
	f.assets.Flush()
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Linen Shirt", "Denim SHIRT", "Wool Scarf", "50% off Cap", "500 Thread Sheet"} {
		in := productInput()
		in.Name = name
		_, err := f.catalog.Add(bg, in, nil)
		require.NoError(t, err)
	}

	got, err := f.catalog.Search(bg, "shirt")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Linen Shirt", got[0].Name)
	assert.Empty(t, got[0].Description, "search loads only the listing columns")
	assert.Empty(t, got[0].Category)

	got, err = f.catalog.Search(bg, "50%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "50% off Cap", got[0].Name)

	_, err = f.catalog.Search(bg, "zzz")
	assert.ErrorIs(t, err, services.ErrNoMatch)
	assert.Equal(t, `No results found for "zzz"`, services.Message(err))

	_, err = f.catalog.Search(bg, "  ")
	assert.ErrorIs(t, err, services.ErrMissingQuery)
}

func TestListByCategory(t *testing.T) {
	f := newFixture(t)
	add := func(name, category, sub string) {
		in := productInput()
		in.Name, in.Category = name, category
		if sub != "" {
			in.SubCategory = json.RawMessage(sub)
		}
		_, err := f.catalog.Add(bg, in, nil)
		require.NoError(t, err)
	}
	add("Oxford", "Men", `["Shirts","Formal"]`)
	add("Chino", "Men", `"Trousers"`)
	add("Blouse", "Women", `["Shirts"]`)
	add("Belt", "Men", "")

	men, err := f.catalog.ListByCategory(bg, "Men", "")
	require.NoError(t, err)
	assert.Len(t, men, 3)

	shirts, err := f.catalog.ListByCategory(bg, "Men", "Shirts")
	require.NoError(t, err)
	require.Len(t, shirts, 1)
	assert.Equal(t, "Oxford", shirts[0].Name)

	trousers, err := f.catalog.ListByCategory(bg, "Men", "Trousers")
	require.NoError(t, err)
	require.Len(t, trousers, 1)
	assert.Equal(t, "Chino", trousers[0].Name)

	none, err := f.catalog.ListByCategory(bg, "Kids", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAllWithoutCache(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.Add(bg, productInput(), nil)
	require.NoError(t, err)

	all, err := f.catalog.ListAll(bg)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Linen Shirt", all[0].Name)
}

func TestPruneImagesKeepsReferencedFiles(t *testing.T) {
	f := newFixture(t)
	id, err := f.catalog.Add(bg, productInput(), upload("kept.png", "k"))
	require.NoError(t, err)
	require.NoError(t, f.disk.Put(bg, "orphan.png", strings.NewReader("o")))

	removed, err := f.catalog.PruneImages(bg)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.png"}, removed)

	p, err := f.catalog.Find(bg, id)
	require.NoError(t, err)
	assert.True(t, fileExists(t, f.disk.Root(), p.ImageName()))
}
