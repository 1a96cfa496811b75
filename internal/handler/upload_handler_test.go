package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type fakeUploads struct {
	called bool
	actor  *service.Actor
	input  service.UploadInput
	body   []byte
	err    error
}

func (f *fakeUploads) Upload(_ context.Context, actor *service.Actor, in *service.UploadInput) (*dto.UploadResult, error) {
	f.called = true
	f.actor = actor
	f.input = *in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UploadResult{URL: "/uploads/1700000000000-board.png", Filename: "1700000000000-board.png"}, nil
}

func multipartRequest(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadPassesFileToService(t *testing.T) {
	uploads := &fakeUploads{}
	handler := NewUploadHandler(uploads, 0)

	c, rec := newTestContext(multipartRequest(t, "file", "Board.png", "image/png", []byte("png-bytes")), models.RoleAdmin)
	handler.Upload(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"/uploads/1700000000000-board.png","filename":"1700000000000-board.png"}`, rec.Body.String())
	assert.Equal(t, "Board.png", uploads.input.Filename)
	assert.Equal(t, "image/png", uploads.input.ContentType)
	assert.Equal(t, int64(len("png-bytes")), uploads.input.Size)
	assert.Equal(t, []byte("png-bytes"), uploads.body)
	require.NotNil(t, uploads.actor)
	assert.Equal(t, models.RoleAdmin, uploads.actor.Role)
}

func TestUploadMissingFile(t *testing.T) {
	uploads := &fakeUploads{}
	handler := NewUploadHandler(uploads, 0)

	c, rec := newTestContext(multipartRequest(t, "image", "a.png", "image/png", []byte("x")), models.RoleAdmin)
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())
	assert.False(t, uploads.called)
}

func TestUploadOversizedBodyRejectedBeforeService(t *testing.T) {
	uploads := &fakeUploads{}
	handler := NewUploadHandler(uploads, 1024)

	content := bytes.Repeat([]byte{'a'}, 1024+multipartOverhead+1)
	c, rec := newTestContext(multipartRequest(t, "file", "big.png", "image/png", content), models.RoleAdmin)
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File too large")
	assert.False(t, uploads.called)
}

func TestUploadServiceRejectionIsFlat(t *testing.T) {
	handler := NewUploadHandler(&fakeUploads{err: appErrors.Clone(appErrors.ErrUnsupportedMedia, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF, SVG, AVIF")}, 0)

	c, rec := newTestContext(multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hi")), models.RoleAdmin)
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid file type. Allowed: JPEG, PNG, WebP, GIF, SVG, AVIF"}`, rec.Body.String())
}
