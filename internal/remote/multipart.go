package remote

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type multipartBody struct {
	fields [][2]string
	files  []marketplace.Upload
}

func newForm() *multipartBody {
	return &multipartBody{}
}

func (m *multipartBody) field(name, value string) *multipartBody {
	if value != "" {
		m.fields = append(m.fields, [2]string{name, value})
	}
	return m
}

func (m *multipartBody) file(u *marketplace.Upload) *multipartBody {
	if u != nil {
		m.files = append(m.files, *u)
	}
	return m
}

// named fills in the form field of u when the caller left it empty.
func named(u *marketplace.Upload, field string) *marketplace.Upload {
	if u == nil || u.Field != "" {
		return u
	}
	c := *u
	c.Field = field
	return &c
}

func (m *multipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	for _, u := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.Field, u.Filename))
		ct := u.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", u.Field, err)
		}
		if _, err := part.Write(u.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", u.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
