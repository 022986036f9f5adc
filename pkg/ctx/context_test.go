package ctx_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
)

func serve(h appctx.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestJSONAndMessage(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.Message(http.StatusCreated, "Product added successfully")
	}, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Product added successfully"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestErrorEnvelope(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.NotFound("Order not found")
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Order not found"}`, rec.Body.String())
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var ok bool
	r.Get("/p/{id}", appctx.Wrap(func(c *appctx.Context) {
		got, ok = c.ParamUint("id")
		c.Message(http.StatusOK, "ok")
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/p/7", nil))
	assert.True(t, ok)
	assert.Equal(t, uint(7), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/p/abc", nil))
	assert.False(t, ok)
}

func TestMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("prod_name", "Shirt"))
	fw, err := mw.CreateFormFile("prod_image", "shirt.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(func(c *appctx.Context) {
		require.True(t, c.IsMultipart())
		require.NoError(t, c.ParseMultipart())

		name, ok := c.FormValue("prod_name")
		assert.True(t, ok)
		assert.Equal(t, "Shirt", name)

		_, ok = c.FormValue("category")
		assert.False(t, ok)

		fh, err := c.FormFile("prod_image")
		require.NoError(t, err)
		require.NotNil(t, fh)
		assert.Equal(t, "shirt.png", fh.Filename)

		missing, err := c.FormFile("other")
		assert.NoError(t, err)
		assert.Nil(t, missing)
		c.Message(http.StatusOK, "ok")
	}, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://shop.local:5000/api/prod_details", nil)
	serve(func(c *appctx.Context) {
		assert.Equal(t, "http://shop.local:5000", c.BaseURL())
	}, req)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "admin.shop.example")
	serve(func(c *appctx.Context) {
		assert.Equal(t, "https://admin.shop.example", c.BaseURL())
	}, req)
}
