// Package bind decodes request bodies (JSON or multipart) with a size cap.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shopadmin/config"
)

// ErrBody wraps every malformed-body failure so callers can answer 400.
var ErrBody = errors.New("bind: malformed request body")

// DecodeJSON decodes r.Body into dest (capped at MAX_BODY_BYTES). An empty body leaves dest untouched.
func DecodeJSON(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, int64(config.Int("MAX_BODY_BYTES", 4<<20)))

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: larger than %d bytes", ErrBody, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrBody, err)
	}
	return nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mt, "multipart/form-data")
}

// Multipart parses a multipart body, spilling files above memory to disk.
// The whole body is capped at MAX_UPLOAD_BYTES.
func Multipart(w http.ResponseWriter, r *http.Request) error {
	limit := config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: upload larger than %d bytes", ErrBody, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrBody, err)
	}
	return nil
}
