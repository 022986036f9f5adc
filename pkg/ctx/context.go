// Package ctx wraps a request/response pair for shopadmin handlers.
//
//	func (h *ProductController) Delete(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Message(http.StatusOK, "Product deleted successfully")
//	}
//
//	r.Delete("/api/delete_product/{id}", "products.delete", ctx.Wrap(h.Delete))
package ctx

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/shopadmin/pkg/bind"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts h to http.HandlerFunc for the router.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context is valid only for the duration of the handler call.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{New: func() any { return new(Context) }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R = w, r
	return c
}

func release(c *Context) {
	if c.R != nil && c.R.MultipartForm != nil {
		c.R.MultipartForm.RemoveAll() //nolint:errcheck
	}
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ─── Request ────────────────────────────────────────────────────────────────

// Param returns a chi URL parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric URL parameter. ok is false when it is not a
// positive integer.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Logger is the request-scoped logger (tagged with request_id).
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// BaseURL is scheme://host of the request, honouring X-Forwarded-Proto and
// X-Forwarded-Host from a reverse proxy.
func (c *Context) BaseURL() string {
	scheme := "http"
	if c.R.TLS != nil {
		scheme = "https"
	}
	if p := c.R.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme, _, _ = strings.Cut(p, ",")
	}
	host := c.R.Host
	if h := c.R.Header.Get("X-Forwarded-Host"); h != "" {
		host, _, _ = strings.Cut(h, ",")
	}
	return strings.TrimSpace(scheme) + "://" + strings.TrimSpace(host)
}

// ─── Binding ────────────────────────────────────────────────────────────────

// DecodeJSON decodes the body without validating it.
func (c *Context) DecodeJSON(dest any) error {
	return bind.DecodeJSON(c.R, dest)
}

func (c *Context) IsMultipart() bool { return bind.IsMultipart(c.R) }

// ParseMultipart parses a multipart/form-data body once.
func (c *Context) ParseMultipart() error {
	if c.R.MultipartForm != nil {
		return nil
	}
	return bind.Multipart(c.W, c.R)
}

// FormValue returns the first value of a multipart or urlencoded field.
func (c *Context) FormValue(key string) (string, bool) {
	if c.R.MultipartForm != nil {
		if vs, ok := c.R.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return vs[0], true
		}
		return "", false
	}
	if c.R.PostForm != nil {
		if vs, ok := c.R.PostForm[key]; ok && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}

// FormFile returns the uploaded file header for field, or nil when the
// request carries none.
func (c *Context) FormFile(field string) (*multipart.FileHeader, error) {
	if c.R.MultipartForm == nil {
		return nil, nil
	}
	_, fh, err := c.R.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}

// ─── Response ───────────────────────────────────────────────────────────────

// JSON writes v verbatim.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Message writes {"message": msg}.
func (c *Context) Message(code int, msg string) {
	response.Message(c.W, code, msg)
}

// Error writes the {status, message} envelope.
func (c *Context) Error(code int, message string) {
	response.Error(c.W, code, message)
}

func (c *Context) Unauthorized(message string) {
	c.Error(http.StatusUnauthorized, message)
}

func (c *Context) NotFound(message string) {
	c.Error(http.StatusNotFound, message)
}
