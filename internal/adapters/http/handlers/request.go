package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"strings"

	"imc-punching/internal/adapters/storage"

	"github.com/gofiber/fiber/v2"
)

// photoField is the multipart field carrying the punch photo
const photoField = "photo"

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// isMultipart reports whether the request carries a multipart form
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// isForm reports whether the request body is form encoded, multipart or not
func isForm(c *fiber.Ctx) bool {
	return isMultipart(c) ||
		strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationForm)
}

// openPhoto returns the uploaded photo, or nil when none was sent.
// The caller must close the returned file.
func openPhoto(c *fiber.Ctx) (*storage.Upload, multipart.File, error) {
	if !isMultipart(c) {
		return nil, nil, nil
	}
	fh, err := c.FormFile(photoField)
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Body:        f,
	}, f, nil
}

// closeFile closes an optional uploaded file
func closeFile(f multipart.File) {
	if f != nil {
		_ = f.Close()
	}
}
