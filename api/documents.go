package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Document is file metadata attached to a case.
type Document struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CaseID     *int64    `json:"case,omitempty"`
	Version    int       `json:"version"`
	SizeBytes  int64     `json:"size,omitempty"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentList is a paginated document listing.
type DocumentList struct {
	Count   int        `json:"count"`
	Next    string     `json:"next,omitempty"`
	Results []Document `json:"results"`
}

// DocumentUpload carries the file content and metadata for an upload.
type DocumentUpload struct {
	Name    string
	CaseID  *int64
	Content io.Reader
}

// DocumentsAPI covers the document endpoints. Uploads are multipart; the
// rest is JSON like every other resource.
type DocumentsAPI struct {
	c *Client
}

func (a *DocumentsAPI) List(ctx context.Context, params map[string]string) (*DocumentList, error) {
	out := &DocumentList{}
	if err := a.c.do(ctx, http.MethodGet, "/documents/", toQuery(params), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *DocumentsAPI) Get(ctx context.Context, id int64) (*Document, error) {
	out := &Document{}
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload sends the file as multipart form data and returns the stored
// document metadata.
func (a *DocumentsAPI) Upload(ctx context.Context, input DocumentUpload) (*Document, error) {
	if input.Name == "" {
		return nil, errors.New("[Upload] document name is required")
	}
	if input.Content == nil {
		return nil, errors.New("[Upload] document content is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("name", input.Name); err != nil {
		return nil, errors.Wrap(err, "[Upload] writing name field")
	}
	if input.CaseID != nil {
		if err := form.WriteField("case", strconv.FormatInt(*input.CaseID, 10)); err != nil {
			return nil, errors.Wrap(err, "[Upload] writing case field")
		}
	}
	part, err := form.CreateFormFile("file", input.Name)
	if err != nil {
		return nil, errors.Wrap(err, "[Upload] creating file part")
	}
	if _, err := io.Copy(part, input.Content); err != nil {
		return nil, errors.Wrap(err, "[Upload] copying file content")
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "[Upload] finalizing form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.c.baseURL+"/documents/", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "[Upload] building request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := a.c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Upload] posting document")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	out := &Document{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, errors.Wrap(err, "[Upload] decoding response")
	}
	return out, nil
}

// Rename updates document metadata.
func (a *DocumentsAPI) Rename(ctx context.Context, id int64, name string) (*Document, error) {
	out := &Document{}
	payload := map[string]string{"name": name}
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/documents/%d/", id), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *DocumentsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d/", id), nil, nil, nil)
}

// Download returns the raw file bytes of the current version.
func (a *DocumentsAPI) Download(ctx context.Context, id int64) ([]byte, error) {
	return a.c.raw(ctx, http.MethodGet, fmt.Sprintf("/documents/%d/download/", id), nil)
}

// Versions lists the version history of a document.
func (a *DocumentsAPI) Versions(ctx context.Context, id int64) ([]Document, error) {
	var out []Document
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d/versions/", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
